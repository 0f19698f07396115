package auth

import (
	"os"
)

// EnvironmentVariables are consulted in order
var EnvironmentVariables = []string{"BEARER_TOKEN", "TWSEARCH_BEARER_TOKEN"}

// EnvironmentStore reads the token from environment variables. It cannot
// store or delete.
type EnvironmentStore struct {
	lookup func(string) string
}

// NewEnvironmentStore creates a store backed by the process environment
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{lookup: os.Getenv}
}

func (e *EnvironmentStore) Get() (string, error) {
	for _, name := range EnvironmentVariables {
		if token := e.lookup(name); token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

func (e *EnvironmentStore) Set(token string) error {
	return ErrReadOnlyStore
}

func (e *EnvironmentStore) Delete() error {
	return ErrReadOnlyStore
}

func (e *EnvironmentStore) Source() Source {
	return SourceEnvironment
}
