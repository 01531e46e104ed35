package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/mosaic/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultSecretsHash is the hash holding name -> value secret pairs.
const DefaultSecretsHash = "mosaic:secrets"

// Secrets implements ports.SecretStore on top of a Redis hash.
type Secrets struct {
	client *backend.Client
	hash   string
}

// NewSecrets creates a secret store from an existing client.
func NewSecrets(client *backend.Client, opts ...Option) *Secrets {
	o := apply(opts)
	return &Secrets{
		client: client,
		hash:   o.hash,
	}
}

// Secret reads HGET <hash> <name>.
func (s *Secrets) Secret(ctx context.Context, name string) (string, error) {
	val, err := s.client.HGet(ctx, s.hash, name).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrSecretNotFound
		}
		return "", fmt.Errorf("failed to read secret from redis: %w", err)
	}
	if val == "" {
		return "", domain.ErrSecretNotFound
	}
	return val, nil
}
