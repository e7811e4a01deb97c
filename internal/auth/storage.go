// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"errors"
	"time"

	"chartviz/cli/internal/keychain"
)

// State represents persisted authentication state for the current user.
type State struct {
	LoggedIn   bool      `json:"logged_in"`
	Account    string    `json:"account"`
	LoggedInAt time.Time `json:"logged_in_at"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// loadState reads the auth state from the keychain. Missing state yields zero value.
func loadState(km *keychain.Manager) (State, error) {
	var s State
	data, err := km.LoadAuthState()
	if errors.Is(err, keychain.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// saveState writes the auth state to the keychain.
func saveState(km *keychain.Manager, s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return km.SaveAuthState(b)
}
