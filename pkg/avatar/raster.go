package avatar

import (
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// IndexGrid holds one palette index per block, row-major.
// It does not depend on palette colors, only on palette length.
type IndexGrid struct {
	Blocks int
	Index  []int
}

// At returns the palette index of block (bx, by). bx is the column.
func (g *IndexGrid) At(bx, by int) int {
	return g.Index[by*g.Blocks+bx]
}

// Max returns the largest index in the grid.
func (g *IndexGrid) Max() int {
	m := 0
	for _, i := range g.Index {
		if i > m {
			m = i
		}
	}
	return m
}

// SampleBlocks assigns a palette index to every block.
//
// Block (bx, by) samples noise at (bx/scale, by/scale + seed). Only the y axis
// carries the seed, so different seeds read vertically shifted slices of the
// same field. Blocks are visited row by row.
func SampleBlocks(seed uint32, cfg Config, noise ports.NoiseField) (*IndexGrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		return nil, &domain.ConfigError{Field: "noise", Reason: "noise field is required"}
	}

	blocks := cfg.Blocks()
	n := len(cfg.Palette)
	offset := float64(seed)

	grid := &IndexGrid{Blocks: blocks, Index: make([]int, blocks*blocks)}
	for by := 0; by < blocks; by++ {
		for bx := 0; bx < blocks; bx++ {
			v := noise.Sample(float64(bx)/cfg.Scale, float64(by)/cfg.Scale+offset)
			grid.Index[by*blocks+bx] = Quantize(v, n)
		}
	}
	return grid, nil
}

// Paint fills every block of a new grid with its palette color.
func Paint(idx *IndexGrid, palette domain.Palette, blockSize int) (*domain.PixelGrid, error) {
	if blockSize <= 0 {
		return nil, &domain.ConfigError{Field: "block_size", Reason: "must be positive", Value: blockSize}
	}
	if m := idx.Max(); m >= len(palette) {
		return nil, &domain.ConfigError{Field: "palette", Reason: "too few colors for index grid", Value: len(palette)}
	}

	grid := domain.NewPixelGrid(idx.Blocks * blockSize)
	for by := 0; by < idx.Blocks; by++ {
		for bx := 0; bx < idx.Blocks; bx++ {
			c := palette[idx.At(bx, by)]
			for dy := 0; dy < blockSize; dy++ {
				for dx := 0; dx < blockSize; dx++ {
					grid.Set(bx*blockSize+dx, by*blockSize+dy, c)
				}
			}
		}
	}
	return grid, nil
}

// Rasterize produces the complete pixel grid for seed, or fails before any
// pixel is written.
func Rasterize(seed uint32, cfg Config, noise ports.NoiseField) (*domain.PixelGrid, error) {
	idx, err := SampleBlocks(seed, cfg, noise)
	if err != nil {
		return nil, err
	}
	return Paint(idx, cfg.Palette, cfg.BlockSize)
}
