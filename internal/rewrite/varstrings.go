package rewrite

import (
	"sort"

	"github.com/labs-lang/sliver/internal/ast"
)

// VarsToStrings collects the distinct "name_<id>" labels a quantifier-free
// formula references, sorted for deterministic emission order. It is the
// Go counterpart of original_source/sliver/atlas/atlas.py's
// vars_to_strings: by the time it runs, EliminateQuantifiers has already
// turned every bound Ref into such a label, so this is just deduplication
// plus a stable sort.
func VarsToStrings(n ast.Node) []string {
	seen := make(map[string]bool)
	for _, r := range ast.Refs(n) {
		seen[r] = true
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
