// Package secret resolves the bearer credential of a DevOps system.
package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
)

// ErrSecretNotFound is returned when no store holds a credential for a system.
var ErrSecretNotFound = errors.New("secret not found")

// EnvPrefix prefixes the environment variable holding a system's token.
const EnvPrefix = "DEVOPSWATCH_TOKEN_"

// Store resolves the bearer credential for a DevOps system ID.
type Store interface {
	Resolve(ctx context.Context, systemID string) (string, error)
}

// MapStore serves credentials from an in-memory map, typically the config file's [secrets] table.
type MapStore map[string]string

// Resolve implements Store.
func (m MapStore) Resolve(_ context.Context, systemID string) (string, error) {
	if v, ok := m[systemID]; ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, systemID)
}

// EnvStore reads credentials from DEVOPSWATCH_TOKEN_<ID> environment variables.
type EnvStore struct {
	lookup func(string) (string, bool)
}

// NewEnvStore creates an EnvStore backed by the process environment.
// If envFile is non-empty and exists, its variables are loaded first;
// variables already set in the environment are not overridden.
func NewEnvStore(envFile string) (*EnvStore, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		}
	}
	return &EnvStore{lookup: os.LookupEnv}, nil
}

// Resolve implements Store.
func (e *EnvStore) Resolve(_ context.Context, systemID string) (string, error) {
	if v, ok := e.lookup(EnvVarName(systemID)); ok && v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, systemID)
}

// EnvVarName returns the environment variable consulted for systemID.
// The ID is upper-cased and every non-alphanumeric rune becomes '_'.
func EnvVarName(systemID string) string {
	var sb strings.Builder
	sb.WriteString(EnvPrefix)
	for _, r := range systemID {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(unicode.ToUpper(r))
			continue
		}
		sb.WriteByte('_')
	}
	return sb.String()
}

// Chain tries each store in order and returns the first credential found.
type Chain []Store

// Resolve implements Store.
func (c Chain) Resolve(ctx context.Context, systemID string) (string, error) {
	for _, s := range c {
		v, err := s.Resolve(ctx, systemID)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrSecretNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, systemID)
}
