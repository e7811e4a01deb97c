// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ServerInfo describes a database reached by Verify.
type ServerInfo struct {
	Database string
	User     string
	Version  string
}

// Verify opens a single-connection pool to connString, pings it and reads the
// server identity. The pool is closed before returning.
func Verify(ctx context.Context, connString string, timeout time.Duration) (*ServerInfo, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	cfg.MaxConns = 1
	cfg.MinConns = 0
	if timeout > 0 {
		cfg.ConnConfig.ConnectTimeout = timeout
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	var info ServerInfo
	row := pool.QueryRow(ctx, "SELECT current_database(), current_user, version()")
	if err := row.Scan(&info.Database, &info.User, &info.Version); err != nil {
		return nil, fmt.Errorf("read server info: %w", err)
	}
	return &info, nil
}
