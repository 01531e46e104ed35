package config

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/mosaic/pkg/domain"
)

// EnvSecrets resolves secrets from environment variables named
// Prefix + name, e.g. MOSAIC_MERRIAM_WEBSTER_API_KEY.
type EnvSecrets struct {
	Prefix string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// NewEnvSecrets returns a store reading MOSAIC_-prefixed variables.
func NewEnvSecrets() *EnvSecrets {
	return &EnvSecrets{Prefix: EnvPrefix}
}

// Secret implements ports.SecretStore. Unset and empty variables are missing.
func (s *EnvSecrets) Secret(ctx context.Context, name string) (string, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(s.Prefix + name)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s%s", domain.ErrSecretNotFound, s.Prefix, name)
	}
	return v, nil
}
