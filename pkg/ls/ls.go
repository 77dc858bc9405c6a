package ls

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/chainguard-dev/clog"
	"github.com/samber/lo"
	"github.com/wolfi-dev/pkgblame/pkg/format"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
	"github.com/wolfi-dev/pkgblame/pkg/query"
)

// Selection narrows the listed packages by install reason.
type Selection int

const (
	All Selection = iota
	ExplicitOnly
	DependencyOnly
)

// SelectionFor maps the --explicit and --dependency flags to a Selection.
// Setting neither or both means all packages.
func SelectionFor(explicit, dependency bool) Selection {
	switch {
	case explicit && !dependency:
		return ExplicitOnly
	case dependency && !explicit:
		return DependencyOnly
	default:
		return All
	}
}

func (s Selection) String() string {
	switch s {
	case ExplicitOnly:
		return "explicit"
	case DependencyOnly:
		return "dependency"
	default:
		return "all"
	}
}

func (s Selection) includes(r pkgdb.Record) bool {
	switch s {
	case ExplicitOnly:
		return r.Reason == pkgdb.ReasonExplicit
	case DependencyOnly:
		return r.Reason == pkgdb.ReasonDependency
	default:
		return true
	}
}

type ListOptions struct {
	// Records is the full installed package set, in database order.
	Records []pkgdb.Record

	Selection Selection

	// Queries restricts the results to the named packages. If empty, all
	// packages are listed.
	Queries []query.Expression

	// RequiredBy, if set, keeps only packages that depend on the named package.
	RequiredBy query.Filter

	// Template renders each result. If nil, format.Default is used.
	Template *format.Template
}

// Select yields the records that pass the selection, the name queries and
// the dependency filter, in their original order.
func Select(opts ListOptions) iter.Seq[pkgdb.Record] {
	return func(yield func(pkgdb.Record) bool) {
		for _, r := range opts.Records {
			if !opts.Selection.includes(r) {
				continue
			}
			if len(opts.Queries) > 0 && !lo.SomeBy(opts.Queries, func(q query.Expression) bool { return q.MatchesName(r) }) {
				continue
			}
			if opts.RequiredBy != nil && !opts.RequiredBy.Matches(r) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// List writes one rendered line per selected package to w. It stops at the
// first write error; lines already written stay written.
func List(ctx context.Context, opts ListOptions, w io.Writer) error {
	log := clog.FromContext(ctx)

	tmpl := opts.Template
	if tmpl == nil {
		tmpl = format.MustCompile(format.Default)
	}

	log.Debugf("listing %d packages with selection %q", len(opts.Records), opts.Selection)

	for _, q := range opts.Queries {
		if !lo.ContainsBy(opts.Records, q.MatchesName) {
			log.Warnf("no package found for %q", q)
		}
	}

	n := 0
	for r := range Select(opts) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(w, tmpl.Render(r)+"\n"); err != nil {
			return fmt.Errorf("unable to write result for %q: %w", r.Name, err)
		}
		n++
	}

	log.Debugf("listed %d packages", n)
	return nil
}
