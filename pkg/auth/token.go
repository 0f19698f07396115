package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Source tells where a bearer token came from
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceConfig      Source = "config"
	SourceKeyring     Source = "keyring"
	SourceNone        Source = "none"
)

// Errors
var (
	ErrTokenNotFound    = errors.New("bearer token not found")
	ErrInvalidToken     = errors.New("invalid bearer token")
	ErrStoreUnavailable = errors.New("token store unavailable")
	ErrReadOnlyStore    = errors.New("token store is read-only")
)

// TokenStore holds a single bearer token
type TokenStore interface {
	// Get returns the stored token or ErrTokenNotFound
	Get() (string, error)
	// Set stores token, replacing any previous one
	Set(token string) error
	// Delete removes the stored token
	Delete() error
	// Source identifies the store
	Source() Source
}

// Credential is a resolved bearer token
type Credential struct {
	Token  string
	Source Source
}

// Manager resolves the bearer token from several stores
type Manager struct {
	env     TokenStore
	keyring TokenStore
}

// NewManager creates a manager reading the environment first and the
// system keyring last
func NewManager() *Manager {
	return &Manager{
		env:     NewEnvironmentStore(),
		keyring: NewKeyringStore(),
	}
}

// NewManagerWithStores creates a manager from explicit stores
func NewManagerWithStores(env, keyring TokenStore) *Manager {
	return &Manager{env: env, keyring: keyring}
}

// Resolve picks the token by precedence: environment, then the configured
// value, then the keyring. A missing token is not an error; the returned
// credential then has SourceNone and the API will reject the request.
func (m *Manager) Resolve(configured string) (Credential, error) {
	if m.env != nil {
		if token, err := m.env.Get(); err == nil && token != "" {
			return Credential{Token: token, Source: m.env.Source()}, nil
		}
	}

	if configured = strings.TrimSpace(configured); configured != "" {
		return Credential{Token: configured, Source: SourceConfig}, nil
	}

	if m.keyring != nil {
		token, err := m.keyring.Get()
		switch {
		case err == nil && token != "":
			return Credential{Token: token, Source: m.keyring.Source()}, nil
		case err != nil && !errors.Is(err, ErrTokenNotFound):
			return Credential{Source: SourceNone}, err
		}
	}

	return Credential{Source: SourceNone}, nil
}

// Store saves token in the keyring
func (m *Manager) Store(token string) error {
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return ErrInvalidToken
	}
	if m.keyring == nil {
		return ErrStoreUnavailable
	}
	if err := m.keyring.Set(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Delete removes the keyring token
func (m *Manager) Delete() error {
	if m.keyring == nil {
		return ErrStoreUnavailable
	}
	return m.keyring.Delete()
}

// MaskToken masks all but the first 4 and last 4 characters of a token
func MaskToken(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
