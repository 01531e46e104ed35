package ports

import (
	"io"

	"github.com/aretw0/mosaic/pkg/domain"
)

// ImageEncoder writes a finished pixel grid to w in the requested format.
// Failures are returned as-is; callers wrap them in domain.EncodingError.
type ImageEncoder interface {
	Encode(w io.Writer, grid *domain.PixelGrid, format domain.Format) error
}
