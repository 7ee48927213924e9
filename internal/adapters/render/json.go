package render

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/okian/leaguetable/internal/domain/board"
)

// JSON renders the table tree as JSON for API consumers.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON { return &JSON{} }

func (JSON) ContentType() string { return "application/json" }

func (JSON) Format() string { return FormatJSON }

func (JSON) Render(w io.Writer, t board.Table) error {
	return json.NewEncoder(w).Encode(t)
}

func (JSON) RenderError(w io.Writer) error {
	return json.NewEncoder(w).Encode(map[string]string{"error": ErrorMessage})
}
