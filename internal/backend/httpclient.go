package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chartviz/cli/internal/logging"
	"chartviz/cli/internal/manifest"
	"chartviz/cli/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestTimeout bounds every backend call. There are no retries.
const RequestTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// HTTP implements API over REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8080")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	log       *zap.Logger
	userAgent string
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
func newHTTP(baseURL string, endpoints manifest.HTTPEndpoints) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: RequestTimeout},
		log:       zap.NewNop(),
		userAgent: "chartviz-cli",
	}
}

// setStandardHeaders sets headers shared by every request.
func (h *HTTP) setStandardHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// postJSON sends body as JSON to path. A valid sess adds the bearer header.
// Non-2xx statuses come back as *APIError.
func (h *HTTP) postJSON(ctx context.Context, op, path string, sess *session.Session, body any) (*response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	h.setStandardHeaders(req, reqID)
	req.Header.Set("Content-Type", "application/json")
	if sess != nil && sess.Valid() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	h.log.Debug("backend request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		logging.Masked("body", string(payload)),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug("backend request failed", zap.String("request_id", reqID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	h.log.Debug("backend response",
		zap.String("op", op),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(data)),
	)

	out := &response{
		status: resp.StatusCode,
		header: resp.Header,
		body:   data,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, newAPIError(op, resp.StatusCode, data)
	}
	return out, nil
}

// decodeJSON decodes a response body keeping numbers as json.Number.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
