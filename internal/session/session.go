// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session carries the bearer token issued by the backend at login.
//
// A Session is passed explicitly to every backend call; nothing reads the token
// from ambient state. Store persists it in the OS keychain between invocations.
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoSession is returned when no token is stored.
var ErrNoSession = errors.New("not logged in")

// Session is an authenticated session.
type Session struct {
	Token string
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool { return strings.TrimSpace(s.Token) != "" }

// Claims are the registered JWT claims the backend sets.
type Claims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Expiry returns the expiry time, or the zero time when the token has none.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// Expired reports whether the token expired before now.
func (c Claims) Expired(now time.Time) bool {
	exp := c.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}

// Claims decodes the payload of the token without verifying the signature.
// Verification is the backend's job; the CLI only reads the claims for display.
func (s Session) Claims() (Claims, error) {
	var c Claims
	parts := strings.Split(s.Token, ".")
	if len(parts) != 3 {
		return c, fmt.Errorf("token is not a JWT")
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return c, fmt.Errorf("decode token payload: %w", err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("parse token payload: %w", err)
	}
	return c, nil
}
