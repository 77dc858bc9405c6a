// Package format implements the --format template language used to print one
// line per package.
//
// A template is literal text interspersed with directives:
//
//	%n, %c, %v, %r      name, comment, version, install reason
//	%{code}             braced form; accepts the letters above and the long
//	                    codes name, comment, version, reason, arch, size,
//	                    depends, provides
//	%%                  a literal percent sign
//
// Any other use of '%' is a compile error.
package format

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

// Default renders the package name alone.
const Default = "%n"

// Field identifies a record attribute.
type Field int

const (
	FieldName Field = iota
	FieldComment
	FieldVersion
	FieldReason
	FieldArch
	FieldSize
	FieldDepends
	FieldProvides
)

var fieldsByLetter = map[byte]Field{
	'n': FieldName,
	'c': FieldComment,
	'v': FieldVersion,
	'r': FieldReason,
}

var fieldsByCode = map[string]Field{
	"n":        FieldName,
	"c":        FieldComment,
	"v":        FieldVersion,
	"r":        FieldReason,
	"name":     FieldName,
	"comment":  FieldComment,
	"version":  FieldVersion,
	"reason":   FieldReason,
	"arch":     FieldArch,
	"size":     FieldSize,
	"depends":  FieldDepends,
	"provides": FieldProvides,
}

func (f Field) value(r pkgdb.Record) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldComment:
		return r.Comment
	case FieldVersion:
		return r.Version
	case FieldReason:
		return r.Reason.String()
	case FieldArch:
		return r.Arch
	case FieldSize:
		return humanize.IBytes(r.InstalledSize)
	case FieldDepends:
		targets := make([]string, 0, len(r.Dependencies))
		for _, d := range r.Dependencies {
			targets = append(targets, d.Target)
		}
		return strings.Join(targets, " ")
	case FieldProvides:
		return strings.Join(r.Provides, " ")
	default:
		return ""
	}
}

// SegmentKind distinguishes the three kinds of template segment.
type SegmentKind int

const (
	Literal SegmentKind = iota
	FieldRef
	Escaped
)

// Segment is one piece of a compiled template. Text is set for Literal
// segments and Field for FieldRef segments.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Field Field
}

// CompileError describes a malformed directive.
type CompileError struct {
	Template string
	// Offset is the byte offset of the '%' that starts the bad directive.
	Offset     int
	Reason     string
	Suggestion string
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("invalid format %q at offset %d: %s", e.Template, e.Offset, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Template is a compiled format string. It's immutable and safe to reuse
// across records.
type Template struct {
	segments []Segment
	styles   *Styles
}

// Compile parses text into a Template.
func Compile(text string) (*Template, error) {
	var segments []Segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, Segment{Kind: Literal, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		if text[i] != '%' {
			literal.WriteByte(text[i])
			continue
		}

		start := i
		if i+1 >= len(text) {
			return nil, &CompileError{Template: text, Offset: start, Reason: "'%' at end of format"}
		}

		i++
		switch c := text[i]; {
		case c == '%':
			flush()
			segments = append(segments, Segment{Kind: Escaped})
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, &CompileError{Template: text, Offset: start, Reason: "unterminated '%{'"}
			}
			code := text[i+1 : i+1+end]
			f, ok := fieldsByCode[code]
			if !ok {
				return nil, &CompileError{
					Template:   text,
					Offset:     start,
					Reason:     fmt.Sprintf("unknown field %q", code),
					Suggestion: suggest(code),
				}
			}
			flush()
			segments = append(segments, Segment{Kind: FieldRef, Field: f})
			i += 1 + end
		default:
			f, ok := fieldsByLetter[c]
			if !ok {
				r, _ := utf8.DecodeRuneInString(text[i:])
				return nil, &CompileError{Template: text, Offset: start, Reason: fmt.Sprintf("unknown field %q", string(r))}
			}
			flush()
			segments = append(segments, Segment{Kind: FieldRef, Field: f})
		}
	}
	flush()

	return &Template{segments: segments}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Template {
	t, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Segments returns a copy of the compiled segments.
func (t *Template) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// suggest returns the known multi-letter field code closest to code, if one
// is within a small edit distance.
func suggest(code string) string {
	codes := make([]string, 0, len(fieldsByCode))
	for c := range fieldsByCode {
		if len(c) > 1 {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)

	best, bestDist := "", 3
	for _, c := range codes {
		d := levenshtein.DistanceForStrings([]rune(code), []rune(c), levenshtein.DefaultOptions)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
