// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides authentication services for the Chartviz CLI.
// It exchanges credentials for a bearer token, persists the token and a small
// state record in the OS keychain, and tears everything down on logout.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "chartviz/cli/internal/errors"
	"chartviz/cli/internal/keychain"
	"chartviz/cli/internal/session"

	"go.uber.org/zap"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Identity describes the stored session for display.
type Identity struct {
	Account    string
	LoggedInAt time.Time
	ExpiresAt  time.Time
	Expired    bool
}

// Service centralizes authentication-related operations against the backend
// and local secure storage.
type Service struct {
	be    Authenticator
	km    *keychain.Manager
	store *session.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService constructs an auth Service.
func NewService(be Authenticator, km *keychain.Manager, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		be:    be,
		km:    km,
		store: session.NewStore(km),
		log:   log,
		now:   time.Now,
	}
}

// Login authenticates with the backend. On success the token is stored and the
// session returned; on failure nothing is stored and the error carries the
// server's message.
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return session.Session{}, apperrors.New(apperrors.LoginFailed, "username and password are required")
	}

	token, err := s.be.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, apperrors.Wrap(apperrors.LoginFailed, "login failed", err)
	}
	sess := session.Session{Token: token}
	if err := s.store.Save(sess); err != nil {
		return session.Session{}, err
	}

	st := State{LoggedIn: true, Account: username, LoggedInAt: s.now().UTC()}
	if claims, err := sess.Claims(); err == nil {
		if claims.Subject != "" {
			st.Account = claims.Subject
		}
		st.ExpiresAt = claims.Expiry().UTC()
	} else {
		s.log.Debug("token is not a readable JWT", zap.Error(err))
	}
	if err := saveState(s.km, st); err != nil {
		s.log.Warn("could not save auth state", zap.Error(err))
	}
	return sess, nil
}

// Logout clears the token, the auth state and the saved database password.
func (s *Service) Logout() error {
	return s.km.ClearAll()
}

// Current loads the stored session.
func (s *Service) Current() (session.Session, error) {
	sess, err := s.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, apperrors.Wrap(apperrors.SessionMissing, "run 'chartviz login' first", err)
	}
	return sess, err
}

// WhoAmI describes the stored session. ok is false when nobody is logged in.
func (s *Service) WhoAmI() (Identity, bool, error) {
	sess, err := s.Current()
	if errors.Is(err, session.ErrNoSession) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}

	st, err := loadState(s.km)
	if err != nil {
		s.log.Debug("could not load auth state", zap.Error(err))
	}
	id := Identity{Account: st.Account, LoggedInAt: st.LoggedInAt, ExpiresAt: st.ExpiresAt}
	if claims, err := sess.Claims(); err == nil {
		if claims.Subject != "" {
			id.Account = claims.Subject
		}
		id.ExpiresAt = claims.Expiry()
		id.Expired = claims.Expired(s.now())
	}
	if id.Account == "" {
		id.Account = "user"
	}
	return id, true, nil
}
