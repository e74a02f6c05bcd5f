package concretize

import (
	"fmt"
	"math/rand"
	"strings"
)

// soft is one randomization assumption of spec.md §4.5: a cell is wished to
// take value rnd, expressed as the goal fragment that would realize
// `b_v ⇒ (cell = rnd)` were cell already constrained to its domain — the
// implication's antecedent lives only in whether the goal is still part of
// the conjunction the solver is asked to satisfy.
type soft struct {
	cell Cell
	rnd  int
}

func (s soft) goal() string {
	return fmt.Sprintf("%s =:= %d", s.cell.v, s.rnd)
}

// buildSofts picks one uniformly random feasible value per nondeterministic
// cell and returns them in a seed-shuffled order, so popping off the tail
// during retraction removes a uniformly random subset first (spec.md §4.5
// "Randomization").
func buildSofts(p *Problem, rng *rand.Rand) []soft {
	cells := p.nondeterministic()
	softs := make([]soft, len(cells))
	for i, c := range cells {
		softs[i] = soft{cell: c, rnd: randomValue(c, rng)}
	}
	rng.Shuffle(len(softs), func(i, j int) { softs[i], softs[j] = softs[j], softs[i] })
	return softs
}

func randomValue(c Cell, rng *rand.Rand) int {
	if c.Values != nil {
		return c.Values[rng.Intn(len(c.Values))]
	}
	return c.Lo + rng.Intn(c.Hi-c.Lo)
}

// block is a past model's full assignment, recorded so the next solve call
// can exclude it (spec.md §4.5: "append ∨ⱼ (xⱼ ≠ m[xⱼ]) as a blocking
// clause").
type block map[string]int // cell.v -> value

func (b block) goal() string {
	parts := make([]string, 0, len(b))
	for v, val := range b {
		parts = append(parts, fmt.Sprintf("%s =:= %d", v, val))
	}
	return fmt.Sprintf("\\+ (%s)", strings.Join(parts, ", "))
}

// buildGoal conjoins every cell's domain goal, the problem's hard
// constraints, the accumulated blocking clauses, and the still-live soft
// assumptions into one query, alongside the Label-Var row solve() needs to
// read the model back out.
func buildGoal(p *Problem, blocks []block, softs []soft) (string, []pair) {
	var parts []string
	row := make([]pair, len(p.cells))
	for i, c := range p.cells {
		parts = append(parts, c.domainGoal())
		row[i] = pair{label: c.Label, v: c.v}
	}
	parts = append(parts, p.constraints...)
	for _, b := range blocks {
		parts = append(parts, b.goal())
	}
	for _, s := range softs {
		parts = append(parts, s.goal())
	}
	return strings.Join(parts, ", "), row
}

func modelBlock(p *Problem, model map[string]int) block {
	b := make(block, len(p.cells))
	for _, c := range p.cells {
		if v, ok := model[c.Label]; ok {
			b[c.v] = v
		}
	}
	return b
}
