package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of the response.
func (e *APIError) StatusCode() int { return e.Status }

// Unauthorized reports whether the backend rejected the session.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func newAPIError(op string, status int, body []byte) *APIError {
	msg := extractMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("%s failed with status %d", op, status)
	}
	return &APIError{Op: op, Status: status, Message: msg}
}

// extractMessage pulls a human readable message out of an error body. The backend
// answers with plain text; JSON arrays of strings and {"error"|"message": ...}
// objects are accepted too.
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return text
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		if s, ok := v[0].(string); ok {
			return strings.TrimSpace(s)
		}
		if m, ok := v[0].(map[string]any); ok {
			return messageField(m)
		}
	case map[string]any:
		if s := messageField(v); s != "" {
			return s
		}
	}
	return text
}

func messageField(m map[string]any) string {
	// Parameter descriptions report failures as {"name": "error", "type": "<message>"}.
	if name, _ := m["name"].(string); name == "error" {
		if s, ok := m["type"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	for _, k := range []string{"error", "message", "detail"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
