package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/okian/leaguetable/internal/domain/board"
)

const (
	textPadding = 2
	textGap     = ' '
)

// Text renders an aligned plain-text table for terminals.
type Text struct{}

// NewText creates a text renderer.
func NewText() *Text { return &Text{} }

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Format() string { return FormatText }

func (Text) RenderError(w io.Writer) error {
	_, err := fmt.Fprintln(w, ErrorMessage)
	return err
}

// Render writes the meta line, a blank line, then the table. Period names
// sit above their first column; sorted columns carry an arrow.
func (Text) Render(w io.Writer, t board.Table) error {
	labels := make(map[string]string, len(t.Order))
	groups := make(map[string]string)
	for _, h := range t.Top {
		if h.Sortable() {
			labels[h.Key] = h.Label + arrow(h.Dir)
		}
	}
	sub := 0
	for _, h := range t.Top {
		if h.Sortable() {
			continue
		}
		if sub < len(t.Sub) {
			groups[t.Sub[sub].Key] = h.Label
		}
		sub += h.ColSpan
	}
	for _, h := range t.Sub {
		labels[h.Key] = h.Label + arrow(h.Dir)
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, textPadding, textGap, 0)
	if len(groups) > 0 {
		writeRow(tw, t.Order, func(key string) string { return groups[key] })
	}
	writeRow(tw, t.Order, func(key string) string { return labels[key] })
	for _, row := range t.Body {
		cells := make(map[string]string, len(row))
		for _, c := range row {
			cells[c.Key] = cellText(c)
		}
		writeRow(tw, t.Order, func(key string) string { return cells[key] })
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	fmt.Fprintln(out, metaLine(t.Meta))
	fmt.Fprintln(out)
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		fmt.Fprintln(out, strings.TrimRight(sc.Text(), " "))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return out.Flush()
}

// flatten replaces control characters so a cell stays inside its column and row.
func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func writeRow(w io.Writer, order []string, value func(key string) string) {
	for i, key := range order {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, flatten(value(key)))
	}
	io.WriteString(w, "\n")
}
