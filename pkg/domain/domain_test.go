package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("#d91e41")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 217, G: 30, B: 65}, c)
	assert.Equal(t, "#d91e41", c.Hex())

	_, err = ParseRGB("not-a-color")
	assert.Error(t, err)
}

func TestPixelGrid_SetAt(t *testing.T) {
	g := NewPixelGrid(4)
	require.Len(t, g.Pix, 4*4*BytesPerPixel)

	g.Set(3, 1, RGB{R: 1, G: 2, B: 3})
	assert.Equal(t, RGB{R: 1, G: 2, B: 3}, g.At(3, 1))
	// Row-major: row 1, column 3.
	assert.Equal(t, []uint8{1, 2, 3}, g.Pix[(1*4+3)*3:(1*4+3)*3+3])

	img := g.Image()
	r, gg, b, a := img.At(3, 1).RGBA()
	assert.Equal(t, uint32(0x0101), r)
	assert.Equal(t, uint32(0x0202), gg)
	assert.Equal(t, uint32(0x0303), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestPixelGrid_Colors(t *testing.T) {
	g := NewPixelGrid(2)
	red := RGB{R: 255}
	g.Set(1, 1, red)

	assert.Equal(t, Palette{{}, red}, g.Colors())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatPNG},
		{"PNG", FormatPNG},
		{" gif ", FormatGIF},
		{"bmp", FormatBMP},
		{"tif", FormatTIFF},
		{"tiff", FormatTIFF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("webp")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, "image/tiff", FormatTIFF.ContentType())
}

func TestFormat_Matches(t *testing.T) {
	assert.True(t, FormatPNG.Matches([]byte("\x89PNG\r\n\x1a\nrest")))
	assert.True(t, FormatGIF.Matches([]byte("GIF89a")))
	assert.True(t, FormatBMP.Matches([]byte("BM\x00\x00")))
	assert.True(t, FormatTIFF.Matches([]byte("II*\x00")))
	assert.True(t, FormatTIFF.Matches([]byte("MM\x00*")))

	assert.False(t, FormatPNG.Matches([]byte("GIF89a")))
	assert.False(t, FormatPNG.Matches(nil))
	assert.False(t, FormatGIF.Matches([]byte("garbage")))
	assert.False(t, FormatTIFF.Matches([]byte("II")))
}

func TestErrorTaxonomy(t *testing.T) {
	var cfgErr error = &ConfigError{Field: "image_size", Reason: "not a multiple of block_size", Value: 65}
	assert.ErrorIs(t, cfgErr, ErrConfiguration)
	assert.NotErrorIs(t, cfgErr, ErrEncoding)

	sink := errors.New("disk full")
	var encErr error = fmt.Errorf("generate: %w", &EncodingError{Format: FormatPNG, Err: sink})
	assert.ErrorIs(t, encErr, ErrEncoding)
	assert.ErrorIs(t, encErr, sink)
	assert.NotErrorIs(t, encErr, ErrConfiguration)

	var target *EncodingError
	require.ErrorAs(t, encErr, &target)
	assert.Same(t, sink, target.Err)
}
