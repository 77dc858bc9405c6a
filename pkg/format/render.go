package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

// Styles decorates field values when rendering to a color terminal. Fields
// without a style are printed as-is; literal text is never styled.
type Styles struct {
	Fields map[Field]lipgloss.Style
}

// WithStyles returns a copy of t that renders field values with s.
func (t *Template) WithStyles(s *Styles) *Template {
	return &Template{segments: t.segments, styles: s}
}

// Render applies the template to r.
func (t *Template) Render(r pkgdb.Record) string {
	var b strings.Builder
	for _, seg := range t.segments {
		switch seg.Kind {
		case Literal:
			b.WriteString(seg.Text)
		case Escaped:
			b.WriteByte('%')
		case FieldRef:
			v := seg.Field.value(r)
			if t.styles != nil {
				if style, ok := t.styles.Fields[seg.Field]; ok && v != "" {
					v = style.Render(v)
				}
			}
			b.WriteString(v)
		}
	}
	return b.String()
}
