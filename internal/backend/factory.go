// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"chartviz/cli/internal/manifest"

	"go.uber.org/zap"
)

// Option configures the HTTP client.
type Option func(*HTTP)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *HTTP) {
		if l != nil {
			h.log = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) { h.userAgent = ua }
}

// New creates a backend API implementation for a resolved manifest.
func New(m *manifest.Manifest, opts ...Option) *HTTP {
	h := newHTTP(m.BaseURL, m.HTTP)
	for _, o := range opts {
		o(h)
	}
	return h
}
