// Package tui renders markdown for terminal output.
package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// On dumb terminals (no color profile) it returns the text untouched so
// piped output stays clean.
func NewRenderer() func(string) (string, error) {
	if termenv.ColorProfile() == termenv.Ascii {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
