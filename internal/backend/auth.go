package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Login calls POST {login} with {username, password} and returns the issued token.
// It accepts the token as {"jwt": ...} (the backend's shape), under a few common
// alternative keys, as a bare string, or in an Authorization response header.
func (h *HTTP) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	resp, err := h.postJSON(ctx, "login", h.endpoints.Login, nil, body)
	if err != nil {
		return "", err
	}

	if token := parseTokenFromBody(resp.body); token != "" {
		return token, nil
	}
	if token := parseBearerToken(resp.header.Get("Authorization")); token != "" {
		return token, nil
	}
	return "", &APIError{Op: "login", Status: http.StatusOK, Message: "login response carried no token"}
}

// parseTokenFromBody extracts the token from a login response payload.
func parseTokenFromBody(body []byte) string {
	var raw any
	if err := decodeJSON(body, &raw); err != nil {
		return strings.TrimSpace(string(body))
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"jwt", "token", "access_token", "accessToken"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 || !strings.EqualFold(v[0:6], "bearer") {
		return ""
	}
	return strings.TrimSpace(v[6:])
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
