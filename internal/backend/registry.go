package backend

import "fmt"

// ByName resolves a backend by its CLI name (spec.md §6 "--backend"),
// mirroring original_source/sliver/app/cli.py's BACKENDS lookup table.
func ByName(name string) (Adapter, error) {
	switch name {
	case "cbmc":
		return NewCBMC(), nil
	case "esbmc":
		return NewESBMC(), nil
	case "cadp":
		return NewCADP(), nil
	case "nuxmv":
		return NewNuXmv(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
