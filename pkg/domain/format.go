package domain

import (
	"bytes"
	"strings"
)

// Format tags the container an encoder produces.
type Format string

const (
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"

	// DefaultFormat is used when no format is requested.
	DefaultFormat = FormatPNG
)

// Formats lists every supported output format.
var Formats = []Format{FormatPNG, FormatGIF, FormatBMP, FormatTIFF}

// ParseFormat normalizes a user-supplied format name.
// An empty name yields DefaultFormat.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultFormat, nil
	case "tif":
		return FormatTIFF, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownFormat
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Matches reports whether data starts with the format's file signature.
// Formats without a known signature match any non-empty data.
func (f Format) Matches(data []byte) bool {
	switch f {
	case FormatPNG:
		return bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n"))
	case FormatGIF:
		return bytes.HasPrefix(data, []byte("GIF8"))
	case FormatBMP:
		return bytes.HasPrefix(data, []byte("BM"))
	case FormatTIFF:
		return bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))
	default:
		return len(data) > 0
	}
}

func (f Format) String() string {
	return string(f)
}
