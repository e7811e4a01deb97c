// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/base64"
	"testing"
	"time"

	"chartviz/cli/internal/keychain"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtWith(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestClaims(t *testing.T) {
	sess := Session{Token: jwtWith(`{"sub":"admin","iat":1700000000,"exp":1700036000}`)}

	c, err := sess.Claims()
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Subject)
	assert.Equal(t, time.Unix(1700036000, 0), c.Expiry())
	assert.False(t, c.Expired(time.Unix(1700000001, 0)))
	assert.True(t, c.Expired(time.Unix(1700036000, 0)))
}

func TestClaimsRejectsMalformedTokens(t *testing.T) {
	for _, tok := range []string{"", "opaque", "a.b", "a.!!!.c", jwtWith("not json")} {
		_, err := Session{Token: tok}.Claims()
		assert.Error(t, err, tok)
	}
}

func TestClaimsWithoutExpiryNeverExpire(t *testing.T) {
	c, err := Session{Token: jwtWith(`{"sub":"x"}`)}.Claims()
	require.NoError(t, err)
	assert.True(t, c.Expiry().IsZero())
	assert.False(t, c.Expired(time.Now()))
}

func TestStore(t *testing.T) {
	st := NewStore(keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil)))

	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	assert.Error(t, st.Save(Session{Token: "  "}))
	require.NoError(t, st.Save(Session{Token: "tok"}))

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok"}, got)

	require.NoError(t, st.Clear())
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}
