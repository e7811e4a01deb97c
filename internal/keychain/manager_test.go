// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManagerWithRing(keyring.NewArrayKeyring(nil))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	_, err := m.LoadSessionToken()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveSessionToken("eyJhbGciOiJIUzI1NiJ9.e30.sig"))
	tok, err := m.LoadSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.e30.sig", tok)
}

func TestSaveSessionTokenRejectsEmpty(t *testing.T) {
	assert.Error(t, newTestManager().SaveSessionToken(""))
}

func TestClearAuthKeepsDBPassword(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.SaveSessionToken("tok"))
	require.NoError(t, m.SaveAuthState([]byte(`{"logged_in":true}`)))
	require.NoError(t, m.SaveDBPassword("s3cret"))

	require.NoError(t, m.ClearAuth())

	_, err := m.LoadSessionToken()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.LoadAuthState()
	assert.ErrorIs(t, err, ErrNotFound)
	pw, err := m.LoadDBPassword()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	require.NoError(t, m.ClearAll())
	_, err = m.LoadDBPassword()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackendsFor(t *testing.T) {
	got, err := backendsFor("file")
	require.NoError(t, err)
	assert.Equal(t, []keyring.BackendType{keyring.FileBackend}, got)

	got, err = backendsFor(" Pass ")
	require.NoError(t, err)
	assert.Equal(t, []keyring.BackendType{keyring.PassBackend}, got)

	_, err = backendsFor("floppy")
	assert.Error(t, err)

	got, err = backendsFor("")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestGlobalManagerOverride(t *testing.T) {
	m := newTestManager()
	SetManager(m)
	t.Cleanup(func() { Configure(Options{}) })

	got, err := GetManager()
	require.NoError(t, err)
	assert.Same(t, m, got)
}
