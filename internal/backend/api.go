// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the chart backend REST API.
// It defines the API contract for login and for the three chart endpoints that
// list data objects, describe their parameters and fetch their rows.
//
// Every chart call takes the caller's session explicitly; the client holds no token.
package backend

import (
	"context"

	"chartviz/cli/internal/charts"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	charts.Source
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (token string, err error)
}
