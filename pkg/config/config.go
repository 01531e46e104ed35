// Package config loads mosaic settings from YAML or JSON files and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/adapters/perlin"
	"github.com/aretw0/mosaic/pkg/avatar"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/input"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Secret backends.
const (
	SecretsEnv    = "env"
	SecretsRedis  = "redis"
	SecretsMemory = "memory"
)

// DefaultDictionaryURL is the Merriam-Webster collegiate endpoint.
const DefaultDictionaryURL = "https://dictionaryapi.com/api/v3/references/collegiate/json/"

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Avatar     AvatarConfig     `mapstructure:"avatar"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxInputSize    int           `mapstructure:"max_input_size"`
}

// AvatarConfig mirrors avatar.Config plus the noise parameters.
type AvatarConfig struct {
	ImageSize int            `mapstructure:"image_size"`
	BlockSize int            `mapstructure:"block_size"`
	Scale     float64        `mapstructure:"scale"`
	Palette   domain.Palette `mapstructure:"palette"`
	Format    domain.Format  `mapstructure:"format"`
	Noise     perlin.Params  `mapstructure:"noise"`
}

type DictionaryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// APIKey seeds the memory secret backend. Other backends ignore it.
	APIKey string `mapstructure:"api_key"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SecretsConfig struct {
	Backend string `mapstructure:"backend"`
	Hash    string `mapstructure:"hash"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration: the stock avatar settings,
// no cache and secrets read from the environment.
func Default() Config {
	gen := avatar.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxInputSize:    input.DefaultMaxInputSize,
		},
		Avatar: AvatarConfig{
			ImageSize: gen.ImageSize,
			BlockSize: gen.BlockSize,
			Scale:     gen.Scale,
			Palette:   gen.Palette,
			Format:    gen.Format,
			Noise:     perlin.DefaultParams(),
		},
		Dictionary: DictionaryConfig{
			BaseURL: DefaultDictionaryURL,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Secrets: SecretsConfig{
			Backend: SecretsEnv,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Generation converts the avatar section into generator settings.
func (a AvatarConfig) Generation() avatar.Config {
	return avatar.Config{
		ImageSize: a.ImageSize,
		BlockSize: a.BlockSize,
		Scale:     a.Scale,
		Palette:   a.Palette.Clone(),
		Format:    a.Format,
	}
}

// Validate reports every invalid setting at once as an *AggregateError.
func (c Config) Validate() error {
	var errs []error
	add := func(key, reason string, value any) {
		errs = append(errs, &FieldError{Key: key, Reason: reason, Value: value})
	}

	if c.Server.Addr == "" {
		add("server.addr", "is required", nil)
	}
	if c.Server.ShutdownTimeout < 0 {
		add("server.shutdown_timeout", "must not be negative", c.Server.ShutdownTimeout)
	}
	if c.Server.MaxInputSize <= 0 {
		add("server.max_input_size", "must be positive", c.Server.MaxInputSize)
	}

	if err := c.Avatar.Generation().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Avatar.Noise.Validate(); err != nil {
		add("avatar.noise", err.Error(), nil)
	}

	if u, err := url.Parse(c.Dictionary.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("dictionary.base_url", "must be an absolute URL", c.Dictionary.BaseURL)
	}
	if c.Dictionary.Timeout <= 0 {
		add("dictionary.timeout", "must be positive", c.Dictionary.Timeout)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		add("cache.backend", "must be one of none, memory, redis", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl", "must not be negative", c.Cache.TTL)
	}

	switch c.Secrets.Backend {
	case SecretsEnv, SecretsRedis, SecretsMemory:
	default:
		add("secrets.backend", "must be one of env, redis, memory", c.Secrets.Backend)
	}

	if c.usesRedis() && c.Redis.Addr == "" {
		add("redis.addr", "is required by the redis backend", nil)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		add("log.format", "must be text or json", c.Log.Format)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func (c Config) usesRedis() bool {
	return c.Cache.Backend == CacheRedis || c.Secrets.Backend == SecretsRedis
}

// String renders the non-secret settings for logs.
func (c Config) String() string {
	return fmt.Sprintf("addr=%s cache=%s secrets=%s format=%s size=%d/%d",
		c.Server.Addr, c.Cache.Backend, c.Secrets.Backend,
		c.Avatar.Format, c.Avatar.ImageSize, c.Avatar.BlockSize)
}
