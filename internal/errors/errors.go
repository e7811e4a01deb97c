// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Each error carries a machine-readable Kind naming the operation that failed and a
// human-friendly message, and may wrap an underlying cause.
//
// Commands use KindOf to pick the right presentation without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// LoginFailed indicates the backend rejected the credentials or was unreachable.
	LoginFailed Kind = "login_failed"
	// ListObjectsFailed indicates the data object listing failed.
	ListObjectsFailed Kind = "list_objects_failed"
	// DescribeObjectFailed indicates parameter discovery failed.
	DescribeObjectFailed Kind = "describe_object_failed"
	// FetchDataFailed indicates the data request failed.
	FetchDataFailed Kind = "fetch_data_failed"
	// ConfigInvalid indicates invalid configuration or connection input.
	ConfigInvalid Kind = "config_invalid"
	// SessionMissing indicates no stored session token.
	SessionMissing Kind = "session_missing"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
