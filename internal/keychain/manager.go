// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for chartviz.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving the session token, the
// serialized auth state and the database password.
//
// The backend is chosen by name (see Options). When no name is given, the native
// store of the platform is used: macOS Keychain, Windows Credential Manager, or the
// Secret Service on Linux, with pass and an encrypted file as fallbacks.
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalOptions Options
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "chartviz"

// Keys used for storing secrets in the OS keychain.
const (
	KeySessionToken = "session_token"
	KeyAuthState    = "auth_state"
	KeyDBPassword   = "db_password"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("secret not found")

// Options selects and configures the keyring backend.
type Options struct {
	// Backend is empty (platform default) or one of "keychain", "wincred",
	// "secret-service", "kwallet", "keyctl", "pass" and "file".
	Backend string
	// FileDir is the directory used by the file backend.
	FileDir string
	// FilePassword unlocks the file backend.
	FilePassword keyring.PromptFunc
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager opens the keyring selected by opts.
func NewManager(opts Options) (*Manager, error) {
	ring, err := openRing(opts)
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Configure sets the options used by GetManager and drops any cached instance.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	globalOptions = opts
	globalManager = nil
}

// SetManager replaces the global instance.
func SetManager(m *Manager) {
	mu.Lock()
	defer mu.Unlock()
	globalManager = m
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	m, err := NewManager(globalOptions)
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

func backendsFor(name string) ([]keyring.BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		switch runtime.GOOS {
		case "darwin":
			return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}, nil
		case "windows":
			return []keyring.BackendType{keyring.WinCredBackend}, nil
		default:
			return []keyring.BackendType{keyring.SecretServiceBackend, keyring.PassBackend, keyring.FileBackend}, nil
		}
	case "keychain":
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case "wincred":
		return []keyring.BackendType{keyring.WinCredBackend}, nil
	case "secret-service":
		return []keyring.BackendType{keyring.SecretServiceBackend}, nil
	case "kwallet":
		return []keyring.BackendType{keyring.KWalletBackend}, nil
	case "keyctl":
		return []keyring.BackendType{keyring.KeyCtlBackend}, nil
	case "pass":
		return []keyring.BackendType{keyring.PassBackend}, nil
	case "file":
		return []keyring.BackendType{keyring.FileBackend}, nil
	}
	return nil, fmt.Errorf("unknown keyring backend %q", name)
}

func openRing(opts Options) (keyring.Keyring, error) {
	allowed, err := backendsFor(opts.Backend)
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		KeyCtlScope:             "user",
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		FileDir:                 opts.FileDir,
		FilePasswordFunc:        opts.FilePassword,
	}

	if cfg.FilePasswordFunc == nil {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt("")
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass' (brew install pass gnupg) or set keyring_backend: file")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

func (m *Manager) set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: key, Data: data, Label: ServiceName + " " + key})
}

func (m *Manager) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(it.Data) == 0 {
		return nil, ErrNotFound
	}
	return it.Data, nil
}

func (m *Manager) remove(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		_ = m.ring.Remove(k)
	}
}

// SaveSessionToken stores the bearer token returned by login.
// This method is thread-safe.
func (m *Manager) SaveSessionToken(token string) error {
	if token == "" {
		return errors.New("empty session token")
	}
	return m.set(KeySessionToken, []byte(token))
}

// LoadSessionToken retrieves the bearer token.
// This method is thread-safe.
func (m *Manager) LoadSessionToken() (string, error) {
	data, err := m.get(KeySessionToken)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveAuthState stores serialized auth state in the keychain.
func (m *Manager) SaveAuthState(data []byte) error {
	return m.set(KeyAuthState, data)
}

// LoadAuthState retrieves serialized auth state from the keychain.
func (m *Manager) LoadAuthState() ([]byte, error) {
	return m.get(KeyAuthState)
}

// SaveDBPassword stores the database password used in connection requests.
func (m *Manager) SaveDBPassword(password string) error {
	return m.set(KeyDBPassword, []byte(password))
}

// LoadDBPassword retrieves the database password.
func (m *Manager) LoadDBPassword() (string, error) {
	data, err := m.get(KeyDBPassword)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearAuth removes the session token and auth state.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.remove(KeySessionToken, KeyAuthState)
	return nil
}

// ClearDB removes DB-related secrets from the keychain.
func (m *Manager) ClearDB() error {
	m.remove(KeyDBPassword)
	return nil
}

// ClearAll removes all secrets from the keychain.
// This method is thread-safe and should be used with caution.
func (m *Manager) ClearAll() error {
	m.remove(KeySessionToken, KeyAuthState, KeyDBPassword)
	return nil
}
