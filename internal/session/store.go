// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"errors"

	"chartviz/cli/internal/keychain"
)

// Store persists the session token in the keychain.
type Store struct {
	km *keychain.Manager
}

// NewStore returns a store backed by km.
func NewStore(km *keychain.Manager) *Store {
	return &Store{km: km}
}

// Load returns the stored session or ErrNoSession.
func (s *Store) Load() (Session, error) {
	tok, err := s.km.LoadSessionToken()
	if errors.Is(err, keychain.ErrNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok}, nil
}

// Save stores sess.
func (s *Store) Save(sess Session) error {
	if !sess.Valid() {
		return errors.New("refusing to store an empty session")
	}
	return s.km.SaveSessionToken(sess.Token)
}

// Clear removes the stored session.
func (s *Store) Clear() error {
	return s.km.ClearAuth()
}
