package domain

import (
	"image"
	"image/color"
)

// BytesPerPixel is the RGB8 channel layout width.
const BytesPerPixel = 3

// PixelGrid is a square RGB8 raster stored row-major.
// The pixel at (x, y) starts at Pix[(y*Size+x)*BytesPerPixel].
type PixelGrid struct {
	Size int
	Pix  []uint8
}

// NewPixelGrid allocates a zeroed size×size grid.
func NewPixelGrid(size int) *PixelGrid {
	return &PixelGrid{
		Size: size,
		Pix:  make([]uint8, size*size*BytesPerPixel),
	}
}

func (g *PixelGrid) offset(x, y int) int {
	return (y*g.Size + x) * BytesPerPixel
}

// Set writes c at column x, row y.
func (g *PixelGrid) Set(x, y int, c RGB) {
	i := g.offset(x, y)
	g.Pix[i] = c.R
	g.Pix[i+1] = c.G
	g.Pix[i+2] = c.B
}

// At returns the color at column x, row y.
func (g *PixelGrid) At(x, y int) RGB {
	i := g.offset(x, y)
	return RGB{R: g.Pix[i], G: g.Pix[i+1], B: g.Pix[i+2]}
}

// Image returns an opaque NRGBA copy suitable for the standard encoders.
func (g *PixelGrid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Size, g.Size))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := g.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return img
}

// Colors returns the distinct colors of the grid in first-seen row-major order.
func (g *PixelGrid) Colors() Palette {
	seen := make(map[RGB]struct{})
	var out Palette
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := g.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
