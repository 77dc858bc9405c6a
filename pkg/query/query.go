// Package query parses and evaluates the package selectors accepted on the
// command line, both as dependency filters ("-r package:glibc") and as name
// queries.
//
// An expression is either a bare name or "<property>:<name>". The only
// property currently supported is "package", which matches exactly like the
// bare form; the property syntax is reserved for other kinds of selectors.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

var (
	// ErrUnsupportedProperty is returned for an expression whose property
	// prefix isn't recognized.
	ErrUnsupportedProperty = errors.New("property not supported")

	// ErrSyntax is returned for an expression that can't be parsed.
	ErrSyntax = errors.New("invalid syntax")
)

// Property is the scope of an expression.
type Property int

const (
	// PropertyNone is a bare name.
	PropertyNone Property = iota
	// PropertyPackage is the "package:" scope.
	PropertyPackage
)

// Expression is a parsed package selector.
type Expression struct {
	Property Property
	Name     string
}

func (e Expression) String() string {
	if e.Property == PropertyPackage {
		return "package:" + e.Name
	}
	return e.Name
}

// Parse parses a selector of the form "name" or "package:name".
func Parse(s string) (Expression, error) {
	prop, name, ok := strings.Cut(s, ":")
	if !ok {
		if s == "" {
			return Expression{}, fmt.Errorf("%w: empty expression", ErrSyntax)
		}
		return Expression{Property: PropertyNone, Name: s}, nil
	}

	switch {
	case prop != strings.TrimSpace(prop):
		return Expression{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	case prop == "package":
		if name == "" {
			return Expression{}, fmt.Errorf("%w: %q has no package name", ErrSyntax, s)
		}
		return Expression{Property: PropertyPackage, Name: name}, nil
	default:
		return Expression{}, fmt.Errorf("%w: %s", ErrUnsupportedProperty, prop)
	}
}

// Matches reports whether the record directly depends on the expression's
// package. Only the record's own dependency list is consulted.
func (e Expression) Matches(r pkgdb.Record) bool {
	return r.DependsOn(e.Name)
}

// MatchesName reports whether the record is the package the expression
// names.
func (e Expression) MatchesName(r pkgdb.Record) bool {
	return r.Name == e.Name
}
