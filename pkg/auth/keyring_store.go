package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "twsearch"
	keyringAccount = "bearer_token"
)

// KeyringStore implements TokenStore using the system keychain
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore creates a keyring-backed token store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService, account: keyringAccount}
}

func (k *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(k.service, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return token, nil
}

func (k *KeyringStore) Set(token string) error {
	if err := keyring.Set(k.service, k.account, token); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Delete() error {
	err := keyring.Delete(k.service, k.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Source() Source {
	return SourceKeyring
}
