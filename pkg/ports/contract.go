package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAvatarCacheContract runs a suite of tests to verify that an AvatarCache implementation
// adheres to the defined interface contract.
func RunAvatarCacheContract(t *testing.T, cache AvatarCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}

		err := cache.Set(ctx, key, data, 0)
		require.NoError(t, err, "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, data, got)
	})

	t.Run("Get returns a private copy", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key+"-copy", []byte("abc"), 0))

		got, err := cache.Get(ctx, key+"-copy")
		require.NoError(t, err)
		got[0] = 'z'

		again, err := cache.Get(ctx, key+"-copy")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("first"), 0))
		require.NoError(t, cache.Set(ctx, key, []byte("second"), 0))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte("x"), 0))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "Deleting a missing key is not an error")
	})
}

// RunSecretStoreContract verifies a SecretStore implementation.
// seed must make name resolve to value in the store under test.
func RunSecretStoreContract(t *testing.T, store SecretStore, seed func(t *testing.T, name, value string)) {
	ctx := context.Background()

	t.Run("Resolve", func(t *testing.T) {
		seed(t, "CONTRACT_API_KEY", "s3cr3t")

		got, err := store.Secret(ctx, "CONTRACT_API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", got)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Secret(ctx, "CONTRACT_MISSING_KEY")
		assert.ErrorIs(t, err, domain.ErrSecretNotFound)
	})

	t.Run("Empty counts as missing", func(t *testing.T) {
		seed(t, "CONTRACT_EMPTY_KEY", "")

		_, err := store.Secret(ctx, "CONTRACT_EMPTY_KEY")
		assert.ErrorIs(t, err, domain.ErrSecretNotFound)
	})
}
