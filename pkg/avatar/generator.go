package avatar

import (
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"

	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// formatSupporter is implemented by encoders that can report their formats
// up front, which lets the generator reject a format before rasterizing.
type formatSupporter interface {
	Supports(domain.Format) bool
}

// Generator renders avatars with a fixed configuration and noise source.
type Generator struct {
	cfg     Config
	noise   ports.NoiseField
	encoder ports.ImageEncoder
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger configures a logger for the Generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator validates cfg and binds it to noise and enc.
func NewGenerator(cfg Config, noise ports.NoiseField, enc ports.ImageEncoder, opts ...Option) (*Generator, error) {
	cfg.Palette = cfg.Palette.Clone()
	if cfg.Format == "" {
		cfg.Format = domain.DefaultFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		return nil, &domain.ConfigError{Field: "noise", Reason: "noise field is required"}
	}
	if enc == nil {
		return nil, &domain.ConfigError{Field: "encoder", Reason: "image encoder is required"}
	}

	g := &Generator{
		cfg:     cfg,
		noise:   noise,
		encoder: enc,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns a copy of the generator settings.
func (g *Generator) Config() Config {
	cfg := g.cfg
	cfg.Palette = cfg.Palette.Clone()
	return cfg
}

// Seed derives the seed for identifier.
func (g *Generator) Seed(identifier string) uint32 {
	return DeriveSeed(identifier)
}

// Indices returns the block-to-palette-index assignment for identifier.
func (g *Generator) Indices(identifier string) (*IndexGrid, error) {
	return SampleBlocks(DeriveSeed(identifier), g.cfg, g.noise)
}

// Grid rasterizes identifier without encoding it.
func (g *Generator) Grid(identifier string) (*domain.PixelGrid, error) {
	return Rasterize(DeriveSeed(identifier), g.cfg, g.noise)
}

// Generate writes the avatar for identifier to w in the configured format.
func (g *Generator) Generate(identifier string, w io.Writer) error {
	return g.GenerateFormat(identifier, g.cfg.Format, w)
}

// GenerateFormat writes the avatar for identifier to w in format.
// Encoder and sink failures come back as *domain.EncodingError; they are not
// retried.
func (g *Generator) GenerateFormat(identifier string, format domain.Format, w io.Writer) error {
	if s, ok := g.encoder.(formatSupporter); ok && !s.Supports(format) {
		return &domain.ConfigError{Field: "format", Reason: "unsupported", Value: format}
	}

	grid, err := g.Grid(identifier)
	if err != nil {
		return err
	}

	if err := g.encoder.Encode(w, grid, format); err != nil {
		g.logger.Debug("avatar encode failed", "format", format, "error", err)
		return &domain.EncodingError{Format: format, Err: err}
	}
	return nil
}

// Fingerprint identifies everything besides the seed that shapes the output:
// the config and, when it describes itself, the noise source.
func (g *Generator) Fingerprint() string {
	h := fnv.New64a()
	h.Write([]byte(g.cfg.Fingerprint()))
	if s, ok := g.noise.(fmt.Stringer); ok {
		h.Write([]byte(s.String()))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
