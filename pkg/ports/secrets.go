package ports

import "context"

// SecretStore resolves named secrets (API keys, tokens).
type SecretStore interface {
	// Secret returns the value for name.
	// Returns domain.ErrSecretNotFound if the secret does not exist or is empty.
	Secret(ctx context.Context, name string) (string, error)
}
