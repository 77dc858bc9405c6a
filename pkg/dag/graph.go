package dag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/wolfi-dev/pkgblame/pkg/pkgdb"
)

// A Graph represents the dependency relationships of an installed package set.
// An edge points from a package to a name it depends on. A name provided by a
// package (e.g. "sh" provided by "bash") has an edge to its provider, so
// dependencies on virtual names resolve to real packages. Provided names that
// are also installed packages get no such edge: the installed package doesn't
// depend on whatever else provides its name.
//
// Installed package sets can contain cycles, so unlike a build graph this one
// isn't acyclic.
type Graph struct {
	Graph    graph.Graph[string, string]
	packages map[string]struct{}

	requiredBy map[string][]string
}

func newGraph() graph.Graph[string, string] {
	return graph.New(graph.StringHash, graph.Directed())
}

// NewGraph returns a Graph built from the given records.
func NewGraph(records []pkgdb.Record) (*Graph, error) {
	g := newGraph()
	packages := make(map[string]struct{}, len(records))

	addVertex := func(name string) error {
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("unable to add vertex %q: %w", name, err)
		}
		return nil
	}
	addEdge := func(from, to string) error {
		if from == to {
			return nil
		}
		if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("unable to add edge %q -> %q: %w", from, to, err)
		}
		return nil
	}

	for i := range records {
		if err := addVertex(records[i].Name); err != nil {
			return nil, err
		}
		packages[records[i].Name] = struct{}{}
	}

	for i := range records {
		r := records[i]

		for _, dep := range r.Dependencies {
			if err := addVertex(dep.Target); err != nil {
				return nil, err
			}
			if err := addEdge(r.Name, dep.Target); err != nil {
				return nil, err
			}
		}

		for _, prov := range r.Provides {
			p, err := pkgdb.ParseDependency(prov)
			if err != nil {
				return nil, fmt.Errorf("package %q: invalid provides entry: %w", r.Name, err)
			}
			if _, ok := packages[p.Target]; ok {
				continue
			}
			if err := addVertex(p.Target); err != nil {
				return nil, err
			}
			if err := addEdge(p.Target, r.Name); err != nil {
				return nil, err
			}
		}
	}

	return &Graph{
		Graph:      g,
		packages:   packages,
		requiredBy: make(map[string][]string),
	}, nil
}

// RequiredBy returns the names of all installed packages that depend on name,
// directly or through any number of intermediate packages or provided names,
// sorted alphabetically. The package itself is never included. Results are
// memoized per name.
func (g *Graph) RequiredBy(name string) ([]string, error) {
	if cached, ok := g.requiredBy[name]; ok {
		return cached, nil
	}

	predecessorMap, err := g.Graph.PredecessorMap()
	if err != nil {
		return nil, err
	}

	visited := map[string]struct{}{name: {}}
	queue := []string{name}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		for dependent := range predecessorMap[key] {
			if _, ok := visited[dependent]; ok {
				continue
			}
			visited[dependent] = struct{}{}
			queue = append(queue, dependent)
		}
	}

	result := []string{}
	for n := range visited {
		if _, ok := g.packages[n]; ok && n != name {
			result = append(result, n)
		}
	}
	sort.Strings(result)

	g.requiredBy[name] = result
	return result, nil
}
