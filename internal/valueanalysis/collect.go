// Package valueanalysis implements the parallel chaos-automaton value
// analyzer over the Stripes and Sign abstract domains (spec.md §4.3):
// collection of reachable write sites, a dependency-graph-backed won't-change
// certificate, guard-directed state bisection, and the fixpoint loop itself.
//
// Grounded on original_source/sliver/analysis/cfg.py and
// original_source/sliver/analysis/fixpoint.py for the algorithm shape, and
// on theRebelliousNerd-codenerd's internal/campaign/intelligence_gatherer.go
// for the errgroup-based parallel-task pattern used by the fixpoint loop.
package valueanalysis

import "github.com/labs-lang/sliver/internal/ast"

// Site is one reachable write: either a bare Assign or a Block of Assigns
// evaluated atomically, paired with the guard conjunction (outermost first)
// that must hold along the path that reaches it.
type Site struct {
	Assigns []*ast.Assign
	Guards  []ast.Node
}

// Collect walks root, inlining named process calls via processes, and
// records one Site per Assign not nested in a Block and one Site per Block
// (spec.md §4.3, "collection phase").
func Collect(root ast.Node, processes map[string]ast.Node) []Site {
	c := &collector{processes: processes, inlining: make(map[string]bool)}
	c.walk(root, nil)
	return c.sites
}

type collector struct {
	processes map[string]ast.Node
	inlining  map[string]bool // guards against infinite recursive Call expansion
	sites     []Site
}

func (c *collector) walk(n ast.Node, guards []ast.Node) {
	switch v := n.(type) {
	case nil:
		return
	case *ast.Assign:
		c.sites = append(c.sites, Site{Assigns: []*ast.Assign{v}, Guards: guards})
	case ast.Block:
		c.sites = append(c.sites, Site{Assigns: append([]*ast.Assign(nil), v.Body...), Guards: guards})
	case ast.Guarded:
		c.walk(v.Body, append(append([]ast.Node(nil), guards...), v.Cond))
	case ast.Composition:
		for _, op := range v.Operands {
			c.walk(op, guards)
		}
	case ast.Call:
		if c.inlining[v.Name] {
			return
		}
		body, ok := c.processes[v.Name]
		if !ok {
			return
		}
		c.inlining[v.Name] = true
		c.walk(body, guards)
		delete(c.inlining, v.Name)
	}
}

// Assigns flattens every Site's Assigns into one slice, for callers that
// only need the write set and not guard context (e.g. dependency-graph
// construction).
func Assigns(sites []Site) []*ast.Assign {
	var out []*ast.Assign
	for _, s := range sites {
		out = append(out, s.Assigns...)
	}
	return out
}
