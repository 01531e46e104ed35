package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _ __ ___   ___  ___  __ _(_) ___ ",
	" | '_ ` _ \\ / _ \\/ __|/ _` | |/ __|",
	" | | | | | | (_) \\__ \\ (_| | | (__ ",
	" |_| |_| |_|\\___/|___/\\__,_|_|\\___|",
}

// PrintBanner writes the mosaic banner to w, one palette color per line.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	palette := domain.DefaultPalette

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		c := palette[(i+1)%len(palette)]
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(c.Hex())))
	}
	fmt.Fprintln(w)
}
