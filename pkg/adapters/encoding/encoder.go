// Package encoding serializes avatar pixel grids into image containers.
package encoding

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"sync"

	"github.com/aretw0/mosaic/pkg/domain"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// EncodeFunc writes grid to w.
type EncodeFunc func(w io.Writer, grid *domain.PixelGrid) error

// Registry implements ports.ImageEncoder by dispatching on the format tag.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[domain.Format]EncodeFunc
}

// New returns a registry with PNG, GIF, BMP and TIFF encoders.
func New() *Registry {
	r := &Registry{encoders: make(map[domain.Format]EncodeFunc)}
	r.Register(domain.FormatPNG, EncodePNG)
	r.Register(domain.FormatGIF, EncodeGIF)
	r.Register(domain.FormatBMP, EncodeBMP)
	r.Register(domain.FormatTIFF, EncodeTIFF)
	return r
}

// Register adds or replaces the encoder for format.
func (r *Registry) Register(format domain.Format, fn EncodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[format] = fn
}

// Supports reports whether format has an encoder.
func (r *Registry) Supports(format domain.Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.encoders[format]
	return ok
}

// Encode writes grid to w in format.
func (r *Registry) Encode(w io.Writer, grid *domain.PixelGrid, format domain.Format) error {
	r.mu.RLock()
	fn, ok := r.encoders[format]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
	}
	return fn(w, grid)
}

// EncodePNG writes an 8-bit RGB PNG. Opaque images are stored without alpha.
func EncodePNG(w io.Writer, grid *domain.PixelGrid) error {
	return png.Encode(w, grid.Image())
}

// EncodeGIF writes a single-frame GIF whose color table is exactly the set
// of colors present in the grid.
func EncodeGIF(w io.Writer, grid *domain.PixelGrid) error {
	pal := grid.Colors()
	if len(pal) > 256 {
		return fmt.Errorf("gif: %d colors exceed the 256 color table", len(pal))
	}
	index := make(map[domain.RGB]uint8, len(pal))
	for i, c := range pal {
		index[c] = uint8(i)
	}

	img := image.NewPaletted(image.Rect(0, 0, grid.Size, grid.Size), pal.ColorPalette())
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			img.SetColorIndex(x, y, index[grid.At(x, y)])
		}
	}
	return gif.Encode(w, img, &gif.Options{NumColors: len(pal)})
}

// EncodeBMP writes an uncompressed BMP.
func EncodeBMP(w io.Writer, grid *domain.PixelGrid) error {
	return bmp.Encode(w, grid.Image())
}

// EncodeTIFF writes a deflate-compressed TIFF.
func EncodeTIFF(w io.Writer, grid *domain.PixelGrid) error {
	return tiff.Encode(w, grid.Image(), &tiff.Options{Compression: tiff.Deflate})
}
