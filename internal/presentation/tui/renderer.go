package tui

import (
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer(opts ...glamour.TermRendererOption) (func(string) (string, error), error) {
	if len(opts) == 0 {
		// Automatically detect light/dark background
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// RenderDefinition renders a dictionary entry for the terminal.
func RenderDefinition(render func(string) (string, error), def *dictionary.Definition) (string, error) {
	return render(def.Markdown())
}
