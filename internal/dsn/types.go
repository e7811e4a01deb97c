// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn converts between PostgreSQL connection strings and the connection
// fields the chart backend expects, and can verify a connection locally.
package dsn

import (
	"fmt"
	"strings"
)

// DBType represents the type of database
type DBType string

const (
	DBTypePostgreSQL DBType = "postgresql"
	DBTypeMySQL      DBType = "mysql"
	DBTypeOracle     DBType = "oracle"
	DBTypeUnknown    DBType = "unknown"
)

// DefaultPort is the port the backend always dials.
const DefaultPort = "5432"

// DSNInfo contains parsed information from a DSN string
type DSNInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
}

// DetectDBType detects the database type from a DSN string.
// Key/value strings ("host=... dbname=...") are PostgreSQL.
func DetectDBType(dsn string) DBType {
	lower := strings.ToLower(strings.TrimSpace(dsn))

	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return DBTypePostgreSQL
	case strings.HasPrefix(lower, "mysql://"):
		return DBTypeMySQL
	case strings.HasPrefix(lower, "oracle://"):
		return DBTypeOracle
	case !strings.Contains(lower, "://") && strings.Contains(lower, "="):
		return DBTypePostgreSQL
	}
	return DBTypeUnknown
}

// ParseError represents an error that occurred during DSN parsing
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{
		DSN:    dsn,
		Reason: reason,
		Hint:   hint,
	}
}
