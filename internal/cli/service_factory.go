package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/adapters/encoding"
	"github.com/aretw0/mosaic/pkg/adapters/memory"
	"github.com/aretw0/mosaic/pkg/adapters/perlin"
	"github.com/aretw0/mosaic/pkg/adapters/redis"
	"github.com/aretw0/mosaic/pkg/avatar"
	"github.com/aretw0/mosaic/pkg/config"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Runtime is a configured service plus the connections it holds.
type Runtime struct {
	Service *mosaic.Service
	redis   *backend.Client
}

// Close releases the Redis connection, if any.
func (r *Runtime) Close() error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Close()
}

// NewService initializes a mosaic service with standard CLI conventions.
// Extra options are applied last, so callers can attach hooks.
func NewService(cfg config.Config, logger *slog.Logger, extra ...mosaic.Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rt := &Runtime{}

	// 1. Noise & Generator
	field, err := perlin.New(cfg.Avatar.Noise)
	if err != nil {
		return nil, fmt.Errorf("error initializing noise field: %w", err)
	}
	gen, err := avatar.NewGenerator(cfg.Avatar.Generation(), field, encoding.New(), avatar.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error initializing generator: %w", err)
	}

	// 2. Shared Redis client
	if cfg.Cache.Backend == config.CacheRedis || cfg.Secrets.Backend == config.SecretsRedis {
		rt.redis = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		logger.Debug("Redis backend enabled", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	}

	opts := []mosaic.Option{
		mosaic.WithGenerator(gen),
		mosaic.WithLogger(logger),
		mosaic.WithCacheTTL(cfg.Cache.TTL),
	}

	// 3. Cache
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		opts = append(opts, mosaic.WithCache(memory.NewCache()))
	case config.CacheRedis:
		var cacheOpts []redis.Option
		if cfg.Cache.Prefix != "" {
			cacheOpts = append(cacheOpts, redis.WithPrefix(cfg.Cache.Prefix))
		}
		opts = append(opts, mosaic.WithCache(redis.NewCache(rt.redis, cacheOpts...)))
	}

	// 4. Secrets & Dictionary
	var keys ports.SecretStore
	switch cfg.Secrets.Backend {
	case config.SecretsRedis:
		var secretOpts []redis.Option
		if cfg.Secrets.Hash != "" {
			secretOpts = append(secretOpts, redis.WithHash(cfg.Secrets.Hash))
		}
		keys = redis.NewSecrets(rt.redis, secretOpts...)
	case config.SecretsMemory:
		keys = memory.NewSecrets(map[string]string{dictionary.SecretName: cfg.Dictionary.APIKey})
	default:
		keys = config.NewEnvSecrets()
	}
	opts = append(opts, mosaic.WithDictionary(dictionary.NewClient(keys,
		dictionary.WithBaseURL(cfg.Dictionary.BaseURL),
		dictionary.WithTimeout(cfg.Dictionary.Timeout),
		dictionary.WithLogger(logger),
	)))

	// 5. Initialize
	svc, err := mosaic.New(append(opts, extra...)...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing service: %w", err)
	}
	rt.Service = svc
	return rt, nil
}
