package avatar

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/aretw0/mosaic/pkg/domain"
)

const (
	DefaultImageSize = 64
	DefaultBlockSize = 4
	DefaultScale     = 8.0

	// MaxPaletteSize keeps every palette representable by paletted encoders.
	MaxPaletteSize = 256
)

// Config holds the generation settings. The zero value is not valid; start
// from DefaultConfig.
type Config struct {
	ImageSize int
	BlockSize int
	Scale     float64
	Palette   domain.Palette
	Format    domain.Format
}

// DefaultConfig returns the 64×64, 4px-block, scale 8, five-color PNG setup.
func DefaultConfig() Config {
	return Config{
		ImageSize: DefaultImageSize,
		BlockSize: DefaultBlockSize,
		Scale:     DefaultScale,
		Palette:   domain.DefaultPalette.Clone(),
		Format:    domain.DefaultFormat,
	}
}

// Blocks returns the number of blocks along one side.
func (c Config) Blocks() int {
	return c.ImageSize / c.BlockSize
}

// Validate reports the first invalid setting as a *domain.ConfigError.
func (c Config) Validate() error {
	switch {
	case c.ImageSize <= 0:
		return &domain.ConfigError{Field: "image_size", Reason: "must be positive", Value: c.ImageSize}
	case c.BlockSize <= 0:
		return &domain.ConfigError{Field: "block_size", Reason: "must be positive", Value: c.BlockSize}
	case c.ImageSize%c.BlockSize != 0:
		return &domain.ConfigError{
			Field:  "image_size",
			Reason: fmt.Sprintf("must be a multiple of block_size %d", c.BlockSize),
			Value:  c.ImageSize,
		}
	case math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) || c.Scale <= 0:
		return &domain.ConfigError{Field: "scale", Reason: "must be a positive finite number", Value: c.Scale}
	case len(c.Palette) == 0:
		return &domain.ConfigError{Field: "palette", Reason: "must contain at least one color"}
	case len(c.Palette) > MaxPaletteSize:
		return &domain.ConfigError{Field: "palette", Reason: fmt.Sprintf("must contain at most %d colors", MaxPaletteSize), Value: len(c.Palette)}
	}
	if c.Format != "" {
		if _, err := domain.ParseFormat(string(c.Format)); err != nil {
			return &domain.ConfigError{Field: "format", Reason: "unsupported", Value: c.Format}
		}
	}
	return nil
}

// Fingerprint identifies the visual output of c. Two configs with the same
// fingerprint paint identical grids for the same seed and noise source.
func (c Config) Fingerprint() string {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(c.ImageSize))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(c.BlockSize))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(c.Scale))
	h.Write(buf[:])
	for _, p := range c.Palette {
		h.Write([]byte{p.R, p.G, p.B})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
