package domain

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// ParseRGB reads a "#RRGGBB" hex string.
func ParseRGB(hex string) (RGB, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Palette is an ordered list of colors. Index 0 is the first entry.
type Palette []RGB

// DefaultPalette is the five-color avatar palette.
var DefaultPalette = Palette{
	{R: 217, G: 30, B: 65},
	{R: 115, G: 50, B: 92},
	{R: 38, G: 36, B: 115},
	{R: 30, G: 28, B: 89},
	{R: 242, G: 58, B: 41},
}

// Clone returns an independent copy of the palette.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// ColorPalette converts to the standard library palette type.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = c
	}
	return out
}

// Hex returns the palette as a list of "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}
