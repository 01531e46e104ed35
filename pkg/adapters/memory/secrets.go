package memory

import (
	"context"
	"sync"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Secrets implements ports.SecretStore from a map.
type Secrets struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSecrets creates a store seeded with values.
func NewSecrets(values map[string]string) *Secrets {
	s := &Secrets{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Put sets a secret.
func (s *Secrets) Put(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

// Secret returns the value for name.
func (s *Secrets) Secret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	if !ok || v == "" {
		return "", domain.ErrSecretNotFound
	}
	return v, nil
}
