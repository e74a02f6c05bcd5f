package concretize

import (
	"fmt"
	"sort"
	"strings"
)

// Rendered holds the two text fragments the source-level output path
// substitutes into the emitted program's sentinel positions (spec.md §4.5
// "Outputs"): Globals declares the scheduler and pick arrays, Inits
// assigns every nonzero cell of the model (runtime-array cells, scheduler
// slots and pick slots). Zero-valued cells are omitted, relying on the C
// compiler's default zeroing.
type Rendered struct {
	Globals string
	Inits   string
}

// RenderSourceLevel renders model into the globals/inits fragments a
// backend adapter splices between the encoder's
// ___concrete-globals___/___concrete-init___ sentinels, blanking the
// ___symbolic-*___ sections is the adapter's responsibility, not this
// package's (spec.md §4.5, §4.8 "Encoder contract").
func RenderSourceLevel(p *Problem, model Model, steps int, picks map[string]int) Rendered {
	return Rendered{
		Globals: renderGlobals(steps, picks),
		Inits:   renderInits(p, model),
	}
}

func renderGlobals(steps int, picks map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "int sched[%d];\n", steps)
	names := make([]string, 0, len(picks))
	for name := range picks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "int %s[%d][%d];\n", name, steps, picks[name])
	}
	return b.String()
}

func renderInits(p *Problem, model Model) string {
	var lines []string
	for _, c := range p.cells {
		v, ok := model[c.Label]
		if !ok || v == 0 {
			continue
		}
		lines = append(lines, renderCellInit(c, v))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func renderCellInit(c Cell, v int) string {
	switch c.Kind {
	case InterfaceCell:
		tid, idx := splitCellLabel(c.Label, "I")
		return fmt.Sprintf("I[%d][%d] = %d;", tid, idx, v)
	case LstigCell:
		tid, idx := splitCellLabel(c.Label, "L")
		return fmt.Sprintf("Lvalue[%d][%d] = %d;", tid, idx, v)
	case EnvCell:
		_, idx := splitCellLabel(c.Label, "E")
		return fmt.Sprintf("E[%d] = %d;", idx, v)
	case SchedCell:
		step := labelSuffix(c.Label, "sched_")
		return fmt.Sprintf("sched[%d] = %d;", step, v)
	default: // PickCell, label shaped "pick_<name>_<step>_<k>"
		name, step, k := splitPickLabel(c.Label)
		return fmt.Sprintf("%s[%d][%d] = %d;", name, step, k, v)
	}
}

func splitCellLabel(label, prefix string) (a, b int) {
	fmt.Sscanf(label, prefix+"_%d_%d", &a, &b)
	return a, b
}

func labelSuffix(label, prefix string) int {
	var n int
	fmt.Sscanf(strings.TrimPrefix(label, prefix), "%d", &n)
	return n
}

func splitPickLabel(label string) (name string, step, k int) {
	rest := strings.TrimPrefix(label, "pick_")
	last := strings.LastIndex(rest, "_")
	mid := strings.LastIndex(rest[:last], "_")
	name = rest[:mid]
	fmt.Sscanf(rest[mid+1:], "%d", &step)
	fmt.Sscanf(rest[last+1:], "%d", &k)
	return name, step, k
}
