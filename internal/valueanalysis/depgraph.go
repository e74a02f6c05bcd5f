package valueanalysis

import (
	"fmt"
	"sort"

	"github.com/labs-lang/sliver/internal/ast"
	"github.com/labs-lang/sliver/internal/mangle"
)

// depSchema derives the reflexive-transitive dependency closure from direct
// "assignment reads variable" edges, mirroring the teacher's own
// edge/path transitive-closure rule (internal/mangle/engine_test.go).
const depSchema = `
Decl edge(X, Y) bound [/string, /string].
Decl depends(X, Y) bound [/string, /string].
depends(X, Y) :- edge(X, Y).
depends(X, Z) :- edge(X, Y), depends(Y, Z).
`

// DependencyGraph maps each written variable to the set of variables it
// reflexively, transitively depends on: itself, every variable read in its
// own right-hand sides and guard conditions, and (recursively) everything
// those in turn depend on.
type DependencyGraph struct {
	closure map[string]map[string]bool
}

// BuildDependencyGraph computes the dependency closure of sites using a
// Mangle transitive-closure program over the direct "writes X, reads Y"
// edges extracted from each site's assignments and guards.
func BuildDependencyGraph(sites []Site) (*DependencyGraph, error) {
	engine, err := mangle.New(depSchema)
	if err != nil {
		return nil, fmt.Errorf("loading dependency schema: %w", err)
	}
	defer engine.Close()

	seen := make(map[[2]string]bool)
	addEdge := func(from, to string) error {
		if from == to || seen[[2]string{from, to}] {
			return nil
		}
		seen[[2]string{from, to}] = true
		return engine.AddFact("edge", from, to)
	}

	allWritten := make(map[string]bool)
	for _, site := range sites {
		reads := make(map[string]bool)
		for _, g := range site.Guards {
			for _, r := range ast.Refs(g) {
				reads[r] = true
			}
		}
		for _, a := range site.Assigns {
			for _, rhs := range a.Rhs {
				for _, r := range ast.Refs(rhs) {
					reads[r] = true
				}
			}
		}
		for _, lhs := range a0Refs(site.Assigns) {
			allWritten[lhs] = true
			for r := range reads {
				if err := addEdge(lhs, r); err != nil {
					return nil, err
				}
			}
			// Variables assigned together in the same atomic block depend on
			// each other's prior values too (spec.md §4.3, Block semantics).
			for _, other := range a0Refs(site.Assigns) {
				if err := addEdge(lhs, other); err != nil {
					return nil, err
				}
			}
		}
	}

	rows, err := engine.GetFacts("depends")
	if err != nil {
		return nil, fmt.Errorf("querying dependency closure: %w", err)
	}

	closure := make(map[string]map[string]bool)
	for v := range allWritten {
		closure[v] = map[string]bool{v: true}
	}
	for _, row := range rows {
		if len(row) != 2 {
			continue
		}
		from, to := row[0], row[1]
		if closure[from] == nil {
			closure[from] = map[string]bool{from: true}
		}
		closure[from][to] = true
	}
	return &DependencyGraph{closure: closure}, nil
}

func a0Refs(assigns []*ast.Assign) []string {
	var names []string
	for _, a := range assigns {
		for _, lhs := range a.Lhs {
			names = append(names, lhs.Name)
		}
	}
	return names
}

// DependsOn returns the (reflexive) dependency set of v, sorted for
// deterministic iteration.
func (g *DependencyGraph) DependsOn(v string) []string {
	set := g.closure[v]
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// AllCertified reports whether every variable v (reflexively) depends on is
// present in certified (spec.md §4.3, won't-change certification clause a).
func (g *DependencyGraph) AllCertified(v string, certified map[string]bool) bool {
	for d := range g.closure[v] {
		if !certified[d] {
			return false
		}
	}
	return true
}
