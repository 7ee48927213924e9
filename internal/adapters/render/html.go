package render

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/okian/leaguetable/internal/domain/board"
	"github.com/okian/leaguetable/internal/domain/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const defaultTitle = "League Table"

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"classes":  func(c []string) string { return strings.Join(c, " ") },
	"sortHref": sortHref,
	"arrow":    arrow,
	"ariaSort": ariaSort,
	"meta":     metaLine,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// HTML renders a full page with sortable header links.
type HTML struct {
	title string
}

// HTMLOption configures the HTML renderer.
type HTMLOption func(*HTML)

// WithTitle sets the page title.
func WithTitle(title string) HTMLOption {
	return func(h *HTML) {
		if title != "" {
			h.title = title
		}
	}
}

// NewHTML creates an HTML renderer.
func NewHTML(opts ...HTMLOption) *HTML {
	h := &HTML{title: defaultTitle}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type htmlPage struct {
	Title string
	Table *board.Table
	Error string
}

func (h *HTML) Render(w io.Writer, t board.Table) error {
	return pageTemplate.Execute(w, htmlPage{Title: h.title, Table: &t})
}

func (h *HTML) RenderError(w io.Writer) error {
	return pageTemplate.Execute(w, htmlPage{Title: h.title, Error: ErrorMessage})
}

func (h *HTML) ContentType() string { return "text/html; charset=utf-8" }

func (h *HTML) Format() string { return FormatHTML }

// sortHref links a header to the board sorted the way a click would.
func sortHref(c board.HeaderCell) string {
	q := url.Values{}
	q.Set("sort", c.Key)
	q.Set("dir", string(c.NextDir))
	return "?" + q.Encode()
}

func arrow(d types.Direction) string {
	switch d {
	case types.Desc:
		return " ▼"
	case types.Asc:
		return " ▲"
	}
	return ""
}

func ariaSort(d types.Direction) string {
	if d == types.Asc {
		return "ascending"
	}
	return "descending"
}
