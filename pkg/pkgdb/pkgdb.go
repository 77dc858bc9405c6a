// Package pkgdb defines the package records that pkgblame queries and the
// Source interface implemented by each package database reader.
package pkgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSource is wrapped by every error a Source returns when the underlying
// package database can't be read.
var ErrSource = errors.New("unable to read package database")

// Reason records why a package is installed.
type Reason int

const (
	// ReasonExplicit means the user asked for the package directly.
	ReasonExplicit Reason = iota
	// ReasonDependency means the package was installed only to satisfy another
	// package's dependency.
	ReasonDependency
)

func (r Reason) String() string {
	switch r {
	case ReasonExplicit:
		return "explicit"
	case ReasonDependency:
		return "dependency"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// ParseReason parses the textual form produced by Reason.String.
func ParseReason(s string) (Reason, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explicit":
		return ReasonExplicit, nil
	case "dependency", "depend":
		return ReasonDependency, nil
	default:
		return 0, fmt.Errorf("unknown install reason %q", s)
	}
}

// Dependency is one entry of a package's declared dependency list.
type Dependency struct {
	// Target is the name being depended on. It is never empty.
	Target string

	// Constraint is the raw version constraint that followed the name (e.g.
	// ">=2.38"), if any. It's kept for display only.
	Constraint string
}

func (d Dependency) String() string {
	return d.Target + d.Constraint
}

// ParseDependency splits a raw dependency string such as "glibc>=2.38" into
// its target and constraint.
func ParseDependency(raw string) (Dependency, error) {
	raw = strings.TrimSpace(raw)
	target, constraint := raw, ""
	if i := strings.IndexAny(raw, "<>=~"); i >= 0 {
		target, constraint = raw[:i], raw[i:]
	}
	if target == "" {
		return Dependency{}, fmt.Errorf("dependency %q has no target", raw)
	}
	return Dependency{Target: target, Constraint: constraint}, nil
}

// ParseDependencies parses each raw dependency string in order.
func ParseDependencies(raws []string) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(raws))
	for _, raw := range raws {
		d, err := ParseDependency(raw)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, nil
}

// Record is one installed package as reported by a package database.
type Record struct {
	Name         string
	Version      string
	Comment      string
	Reason       Reason
	Dependencies []Dependency

	Arch          string
	InstalledSize uint64
	Provides      []string
}

// DependsOn reports whether target appears literally in the record's own
// dependency list.
func (r Record) DependsOn(target string) bool {
	for _, d := range r.Dependencies {
		if d.Target == target {
			return true
		}
	}
	return false
}

// A Source enumerates the installed package set. Records are returned in the
// order the underlying database reports them.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}
