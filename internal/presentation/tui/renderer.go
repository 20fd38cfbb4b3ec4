package tui

import (
	"github.com/aretw0/pathsampling"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a markdown renderer for the run report, wrapping at
// width columns. If glamour cannot be set up the report is printed as is.
func NewRenderer(width int) pathsampling.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}
