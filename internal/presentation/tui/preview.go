package tui

import (
	"bufio"
	"io"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/muesli/termenv"
)

// Preview draws grid as colored cells, one cell per block of blockSize
// pixels. Each cell is two spaces wide so blocks look square.
func Preview(w io.Writer, profile termenv.Profile, grid *domain.PixelGrid, blockSize int) error {
	if blockSize <= 0 {
		blockSize = 1
	}
	bw := bufio.NewWriter(w)
	for y := 0; y < grid.Size; y += blockSize {
		for x := 0; x < grid.Size; x += blockSize {
			cell := termenv.String("  ").Background(profile.Color(grid.At(x, y).Hex()))
			if _, err := bw.WriteString(cell.String()); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
