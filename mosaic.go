package mosaic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/adapters/encoding"
	"github.com/aretw0/mosaic/pkg/adapters/perlin"
	"github.com/aretw0/mosaic/pkg/avatar"
	"github.com/aretw0/mosaic/pkg/determinant"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// Definer looks words up. *dictionary.Client implements it.
type Definer interface {
	Lookup(ctx context.Context, word string) (*dictionary.Definition, error)
}

// Service is the high-level entry point. It wraps the avatar generator with
// an optional cache and exposes the dictionary and determinant utilities.
// Safe for concurrent use.
type Service struct {
	generator  *avatar.Generator
	cache      ports.AvatarCache
	cacheTTL   time.Duration
	dictionary Definer
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithGenerator replaces the default generator.
func WithGenerator(g *avatar.Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithCache stores encoded avatars in c.
func WithCache(c ports.AvatarCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCacheTTL sets how long cached avatars live. Zero keeps them forever.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithDictionary enables Define.
func WithDictionary(d Definer) Option {
	return func(s *Service) {
		s.dictionary = d
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New builds a Service. Without WithGenerator it renders the default
// 64×64 five-color PNG avatars over the default Perlin field.
func New(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.generator == nil {
		gen, err := avatar.NewGenerator(avatar.DefaultConfig(), perlin.Default(),
			encoding.New(), avatar.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("default generator: %w", err)
		}
		s.generator = gen
	}
	return s, nil
}

// Generator returns the underlying avatar generator.
func (s *Service) Generator() *avatar.Generator {
	return s.generator
}

// AvatarResult is an encoded avatar.
type AvatarResult struct {
	Seed   uint32
	Format domain.Format
	Data   []byte
	Cached bool
	// ETag changes whenever any input to the image changes.
	ETag string
}

// ContentType returns the MIME type of Data.
func (r *AvatarResult) ContentType() string {
	return r.Format.ContentType()
}

// CacheKey identifies an encoded avatar. Output depends only on the seed, so
// identifiers sharing a seed share an entry.
func CacheKey(fingerprint string, seed uint32, format domain.Format) string {
	return fmt.Sprintf("%s:%08x.%s", fingerprint, seed, format)
}

// resolve fills in the default format and derives the seed and cache key.
func (s *Service) resolve(identifier string, format domain.Format) (domain.Format, uint32, string) {
	if format == "" {
		format = s.generator.Config().Format
	}
	seed := s.generator.Seed(identifier)
	return format, seed, CacheKey(s.generator.Fingerprint(), seed, format)
}

// ETag returns the entity tag Avatar would report for identifier and format,
// without rendering.
func (s *Service) ETag(identifier string, format domain.Format) string {
	_, _, key := s.resolve(identifier, format)
	return fmt.Sprintf("%q", key)
}

// Avatar renders identifier in format, or the configured format when empty.
// Cache failures are logged and never fail the request. A cached entry that
// does not carry the format's signature is dropped and rendered again.
func (s *Service) Avatar(ctx context.Context, identifier string, format domain.Format) (res *AvatarResult, err error) {
	start := time.Now()
	format, seed, key := s.resolve(identifier, format)

	res = &AvatarResult{
		Seed:   seed,
		Format: format,
		ETag:   fmt.Sprintf("%q", key),
	}
	defer func() {
		if s.hooks.OnAvatar != nil {
			s.hooks.OnAvatar(ctx, &domain.AvatarEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventAvatar},
				Seed:      seed,
				Format:    format,
				Cached:    res != nil && res.Cached,
				Duration:  time.Since(start),
				Err:       err,
			})
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil && format.Matches(data):
			res.Data = data
			res.Cached = true
			return res, nil
		case err == nil:
			s.logger.Warn("dropping corrupted avatar cache entry", "key", key, "size", len(data))
			if err := s.cache.Delete(ctx, key); err != nil {
				s.logger.Warn("avatar cache delete failed", "key", key, "error", err)
			}
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("avatar cache read failed", "key", key, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := s.generator.GenerateFormat(identifier, format, &buf); err != nil {
		return nil, err
	}
	res.Data = buf.Bytes()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res.Data, s.cacheTTL); err != nil {
			s.logger.Warn("avatar cache write failed", "key", key, "error", err)
		}
	}
	return res, nil
}

// WriteAvatar renders identifier and copies it to w. A failing w is reported
// as a *domain.EncodingError.
func (s *Service) WriteAvatar(ctx context.Context, identifier string, format domain.Format, w io.Writer) (*AvatarResult, error) {
	res, err := s.Avatar(ctx, identifier, format)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(res.Data); err != nil {
		return nil, &domain.EncodingError{Format: res.Format, Err: err}
	}
	return res, nil
}

// Define looks word up in the configured dictionary. Without one it fails
// with dictionary.ErrNoAPIKey.
func (s *Service) Define(ctx context.Context, word string) (def *dictionary.Definition, err error) {
	defer func() {
		if s.hooks.OnDefinition != nil {
			s.hooks.OnDefinition(ctx, &domain.DefinitionEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDefinition},
				Word:      word,
				Err:       err,
			})
		}
	}()

	if s.dictionary == nil {
		return nil, dictionary.ErrNoAPIKey
	}
	return s.dictionary.Lookup(ctx, word)
}

// Determinant evaluates a matrix literal such as "[[1, 2], [3, 4]]".
func (s *Service) Determinant(ctx context.Context, source string) (value string, err error) {
	defer func() {
		if s.hooks.OnDeterminant != nil {
			s.hooks.OnDeterminant(ctx, &domain.DeterminantEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDeterminant},
				Err:       err,
			})
		}
	}()
	return determinant.Compute(source)
}
