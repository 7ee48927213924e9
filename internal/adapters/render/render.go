// Package render turns a board table into HTML, plain text or JSON.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/leaguetable/internal/domain/board"
)

// Format names accepted by ByName.
const (
	FormatHTML = "html"
	FormatText = "text"
	FormatJSON = "json"
)

// ErrorMessage replaces the board when no snapshot can be loaded.
const ErrorMessage = "Error loading data"

// ErrUnknownFormat is returned by ByName for an unsupported format.
var ErrUnknownFormat = errors.New("unknown render format")

// Renderer writes a board table in one output format.
type Renderer interface {
	Render(w io.Writer, t board.Table) error
	// RenderError writes the error variant of the page.
	RenderError(w io.Writer) error
	ContentType() string
	Format() string
}

// ByName returns the renderer for name; empty selects HTML.
func ByName(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatHTML:
		return NewHTML(), nil
	case FormatText, "txt":
		return NewText(), nil
	case FormatJSON:
		return NewJSON(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Formats lists the supported format names.
func Formats() []string { return []string{FormatHTML, FormatText, FormatJSON} }

// metaLine is the one-line summary shown above every table.
func metaLine(m board.Meta) string {
	return fmt.Sprintf("GW %d • Last update: %s %s", m.CurrentGW, m.LocalTime, m.Zone)
}

// cellText flattens a cell to plain text.
func cellText(c board.Cell) string {
	if len(c.Badges) == 0 {
		return c.Text
	}
	parts := make([]string, 0, len(c.Badges))
	for _, b := range c.Badges {
		if b.Label != "" {
			parts = append(parts, b.Label+" "+b.Text)
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}
