package keep

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// Roots selects the kept classes. rules.Resolver implements it.
type Roots interface {
	Kept(name string) bool
}

// Graph maps each class of an archive to the classes it references.
type Graph struct {
	order []string
	deps  map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

// Add sets the references of name. A name added twice keeps its first
// position and its latest references.
func (g *Graph) Add(name string, deps []string) {
	if _, ok := g.deps[name]; !ok {
		g.order = append(g.order, name)
	}
	g.deps[name] = deps
}

// Classes returns every node in the order it was added.
func (g *Graph) Classes() []string {
	return append([]string(nil), g.order...)
}

// Deps returns the references recorded for name.
func (g *Graph) Deps(name string) []string {
	return g.deps[name]
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Build walks every class entry of an archive concurrently and returns the
// reference graph in archive order. Class entries that cannot be parsed are
// left out of the graph, so they are never excluded.
func Build(ctx context.Context, entries []*archive.Entry, policy Policy) (*Graph, error) {
	logger := logging.GetLogger("keep.graph")
	defer logging.LogOperationStart(logger, "build keep graph")()

	type node struct {
		name string
		deps []string
		ok   bool
	}
	nodes := make([]node, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entries {
		if !e.IsClass() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, deps, err := Collect(e.Data, policy)
			if err != nil {
				logger.Debug().Err(err).Str("entry", e.Name).Msg("Leaving unreadable class out of keep graph")
				return nil
			}
			nodes[i] = node{name: Stem(e.Name), deps: deps, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := NewGraph()
	for _, n := range nodes {
		if n.ok {
			graph.Add(n.name, n.deps)
		}
	}
	logger.Debug().Int("classes", graph.Len()).Msg("Built keep graph")
	return graph, nil
}

// Stem returns the class name an entry path stands for.
func Stem(entry string) string {
	return strings.TrimSuffix(entry, archive.ClassSuffix)
}

// RootsOf returns the nodes selected by roots, in graph order.
func (g *Graph) RootsOf(roots Roots) []string {
	var out []string
	for _, name := range g.order {
		if roots.Kept(name) {
			out = append(out, name)
		}
	}
	return out
}

// Closure returns every node reachable from the given names, the names
// themselves included.
func (g *Graph) Closure(from []string) map[string]bool {
	seen := make(map[string]bool)
	stack := append([]string(nil), from...)
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, dep := range g.deps[name] {
			if !seen[dep] {
				stack = append(stack, dep)
			}
		}
	}
	return seen
}

// Excludes returns the nodes no kept root reaches, in graph order.
func (g *Graph) Excludes(roots Roots) []string {
	closure := g.Closure(g.RootsOf(roots))
	var out []string
	for _, name := range g.order {
		if !closure[name] {
			out = append(out, name)
		}
	}
	return out
}

// Edges returns every (class, dependency) pair where the dependency is
// also a node, sorted for stable output.
func (g *Graph) Edges() [][2]string {
	var out [][2]string
	for _, name := range g.order {
		for _, dep := range g.deps[name] {
			if _, ok := g.deps[dep]; ok {
				out = append(out, [2]string{name, dep})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
