package query

import (
	"github.com/wolfi-dev/pkgblame/pkg/dag"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

// Filter decides whether a record satisfies a dependency filter.
type Filter interface {
	Matches(r pkgdb.Record) bool
}

var _ Filter = Expression{}

// TransitiveFilter matches records that depend on the expression's package
// either directly or through other installed packages.
type TransitiveFilter struct {
	Expression Expression
	names      map[string]struct{}
}

// Transitive resolves the full set of packages requiring expr's package in g.
// The set is computed once, so Matches is a map lookup per record.
func Transitive(expr Expression, g *dag.Graph) (*TransitiveFilter, error) {
	requiredBy, err := g.RequiredBy(expr.Name)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(requiredBy))
	for _, n := range requiredBy {
		names[n] = struct{}{}
	}

	return &TransitiveFilter{Expression: expr, names: names}, nil
}

func (f *TransitiveFilter) Matches(r pkgdb.Record) bool {
	if f.Expression.Matches(r) {
		return true
	}
	_, ok := f.names[r.Name]
	return ok
}
