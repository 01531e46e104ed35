package mosaic_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/adapters/memory"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu           sync.Mutex
	avatars      []domain.AvatarEvent
	definitions  []domain.DefinitionEvent
	determinants []domain.DeterminantEvent
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAvatar: func(ctx context.Context, e *domain.AvatarEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.avatars = append(r.avatars, *e)
		},
		OnDefinition: func(ctx context.Context, e *domain.DefinitionEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.definitions = append(r.definitions, *e)
		},
		OnDeterminant: func(ctx context.Context, e *domain.DeterminantEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.determinants = append(r.determinants, *e)
		},
	}
}

func TestService_DefaultAvatar(t *testing.T) {
	svc, err := mosaic.New()
	require.NoError(t, err)

	res, err := svc.Avatar(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatPNG, res.Format)
	assert.Equal(t, "image/png", res.ContentType())
	assert.Equal(t, uint32(97+108+105+99+101), res.Seed)
	assert.NotEmpty(t, res.ETag)

	img, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	again, err := svc.Avatar(context.Background(), "alice", domain.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, res.Data, again.Data)
	assert.Equal(t, res.ETag, again.ETag)
}

func TestService_CacheSharedBySeed(t *testing.T) {
	cache := memory.NewCache()
	rec := &recorder{}
	svc, err := mosaic.New(mosaic.WithCache(cache), mosaic.WithHooks(rec.hooks()))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Avatar(ctx, "ab", domain.FormatPNG)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	// "ba" has the same character sum, hence the same seed.
	second, err := svc.Avatar(ctx, "ba", domain.FormatPNG)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, cache.Len())

	_, err = svc.Avatar(ctx, "ab", domain.FormatGIF)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len(), "formats are cached separately")

	require.Len(t, rec.avatars, 3)
	assert.False(t, rec.avatars[0].Cached)
	assert.True(t, rec.avatars[1].Cached)
	assert.Equal(t, domain.EventAvatar, rec.avatars[0].Type)
}

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("cache down")
}

func (brokenCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(ctx context.Context, key string) error { return nil }

func TestService_CacheFailuresAreIgnored(t *testing.T) {
	svc, err := mosaic.New(mosaic.WithCache(brokenCache{}))
	require.NoError(t, err)

	res, err := svc.Avatar(context.Background(), "bob", domain.FormatPNG)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.NotEmpty(t, res.Data)
}

type deleteCounter struct {
	*memory.Cache
	deletes int
}

func (c *deleteCounter) Delete(ctx context.Context, key string) error {
	c.deletes++
	return c.Cache.Delete(ctx, key)
}

func TestService_CorruptedCacheEntryIsReplaced(t *testing.T) {
	cache := &deleteCounter{Cache: memory.NewCache()}
	svc, err := mosaic.New(mosaic.WithCache(cache))
	require.NoError(t, err)
	ctx := context.Background()

	gen := svc.Generator()
	key := mosaic.CacheKey(gen.Fingerprint(), gen.Seed("dave"), domain.FormatPNG)
	require.NoError(t, cache.Set(ctx, key, []byte("not an image"), 0))

	res, err := svc.Avatar(ctx, "dave", domain.FormatPNG)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 1, cache.deletes)
	_, err = png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)

	stored, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, res.Data, stored)

	again, err := svc.Avatar(ctx, "dave", domain.FormatPNG)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, 1, cache.deletes)
}

func TestService_ETagWithoutRendering(t *testing.T) {
	svc, err := mosaic.New()
	require.NoError(t, err)

	res, err := svc.Avatar(context.Background(), "erin", "")
	require.NoError(t, err)
	assert.Equal(t, res.ETag, svc.ETag("erin", ""))
	assert.Equal(t, res.ETag, svc.ETag("erin", domain.FormatPNG))
	assert.NotEqual(t, res.ETag, svc.ETag("erin", domain.FormatGIF))
}

func TestService_CacheTTL(t *testing.T) {
	cache := memory.NewCache()
	svc, err := mosaic.New(mosaic.WithCache(cache), mosaic.WithCacheTTL(time.Nanosecond))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Avatar(ctx, "carol", domain.FormatPNG)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	res, err := svc.Avatar(ctx, "carol", domain.FormatPNG)
	require.NoError(t, err)
	assert.False(t, res.Cached, "expired entries are regenerated")
}

func TestService_UnknownFormat(t *testing.T) {
	rec := &recorder{}
	svc, err := mosaic.New(mosaic.WithHooks(rec.hooks()))
	require.NoError(t, err)

	_, err = svc.Avatar(context.Background(), "dave", "webp")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	require.Len(t, rec.avatars, 1)
	assert.Error(t, rec.avatars[0].Err)
}

func TestService_CanceledContext(t *testing.T) {
	svc, err := mosaic.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Avatar(ctx, "erin", "")
	assert.ErrorIs(t, err, context.Canceled)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestService_WriteAvatar(t *testing.T) {
	svc, err := mosaic.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	res, err := svc.WriteAvatar(context.Background(), "frank", domain.FormatBMP, &buf)
	require.NoError(t, err)
	assert.Equal(t, res.Data, buf.Bytes())
	assert.Equal(t, "BM", buf.String()[:2])

	_, err = svc.WriteAvatar(context.Background(), "frank", domain.FormatPNG, failingWriter{})
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

type fakeDictionary struct {
	def *dictionary.Definition
	err error
}

func (f fakeDictionary) Lookup(ctx context.Context, word string) (*dictionary.Definition, error) {
	return f.def, f.err
}

func TestService_Define(t *testing.T) {
	rec := &recorder{}
	svc, err := mosaic.New(mosaic.WithHooks(rec.hooks()))
	require.NoError(t, err)

	_, err = svc.Define(context.Background(), "word")
	assert.ErrorIs(t, err, dictionary.ErrNoAPIKey)

	want := &dictionary.Definition{Headword: dictionary.Headword{Word: "word"}}
	svc, err = mosaic.New(mosaic.WithHooks(rec.hooks()), mosaic.WithDictionary(fakeDictionary{def: want}))
	require.NoError(t, err)

	got, err := svc.Define(context.Background(), "word")
	require.NoError(t, err)
	assert.Same(t, want, got)

	require.Len(t, rec.definitions, 2)
	assert.ErrorIs(t, rec.definitions[0].Err, dictionary.ErrNoAPIKey)
	assert.NoError(t, rec.definitions[1].Err)
	assert.Equal(t, "word", rec.definitions[1].Word)
}

func TestService_Determinant(t *testing.T) {
	rec := &recorder{}
	svc, err := mosaic.New(mosaic.WithHooks(rec.hooks()))
	require.NoError(t, err)

	got, err := svc.Determinant(context.Background(), "[[1, 2], [3, 4]]")
	require.NoError(t, err)
	assert.Equal(t, "-2", got)

	_, err = svc.Determinant(context.Background(), "[[1, 2]]")
	assert.Error(t, err)

	require.Len(t, rec.determinants, 2)
	assert.NoError(t, rec.determinants[0].Err)
	assert.Error(t, rec.determinants[1].Err)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "abc:0000002a.png", mosaic.CacheKey("abc", 42, domain.FormatPNG))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, mosaic.Version)
}
