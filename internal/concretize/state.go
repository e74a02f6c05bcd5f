package concretize

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// State is one node of the concretizer's state machine (spec.md §4.8):
// Uninitialized → Ready → Solving → Sat | Unsat(soft-retract) → Sat |
// Failed. From Sat, calling Solve again re-enters Solving with the
// previous model's blocking clause already in place.
type State int

const (
	Uninitialized State = iota
	Ready
	Solving
	Sat
	Unsat
	Failed
)

func (s State) String() string {
	return [...]string{"uninitialized", "ready", "solving", "sat", "unsat", "failed"}[s]
}

// ErrConcretizationFailed is returned when the soft-constraint list empties
// and the hard problem (plus accumulated blocking clauses) remains unsat.
var ErrConcretizationFailed = errors.New("concretization failed: no model after soft-constraint retraction")

// Model is one solved assignment, keyed by Cell.Label.
type Model map[string]int

// Concretizer drives one Problem through repeated Solve calls, accumulating
// blocking clauses across calls so a run's successive simulations differ
// (spec.md §4.8 "Shared resources": "past-model clauses accumulate
// monotonically across simulations").
type Concretizer struct {
	problem *Problem
	rng     *rand.Rand
	eng     *engine
	state   State
	blocks  []block
}

// New prepares a Concretizer over problem, ready to Solve. rng drives both
// rnd_value(id) and the soft-constraint retraction order, seeded by the
// orchestrator's resolved run seed (spec.md §4.5, §9 "Global random seed").
func New(problem *Problem, rng *rand.Rand) *Concretizer {
	return &Concretizer{problem: problem, rng: rng, eng: newEngine(), state: Ready}
}

// State reports the concretizer's current machine state.
func (c *Concretizer) State() State { return c.state }

// Solve runs one concretization (spec.md §4.5 "Randomization"): it builds
// the soft-constraint layer fresh, retracts it from the tail until the
// query is satisfiable or exhausted, and on success appends the model as a
// blocking clause for the next call.
func (c *Concretizer) Solve(ctx context.Context) (Model, error) {
	if c.state != Ready && c.state != Sat {
		return nil, fmt.Errorf("concretizer: Solve called in state %s", c.state)
	}
	c.state = Solving

	softs := buildSofts(c.problem, c.rng)
	for {
		goal, row := buildGoal(c.problem, c.blocks, softs)
		result, ok, err := c.eng.solve(ctx, goal, row)
		if err != nil {
			c.state = Failed
			return nil, fmt.Errorf("solving concretization problem: %w", err)
		}
		if ok {
			c.blocks = append(c.blocks, modelBlock(c.problem, result))
			c.state = Sat
			return Model(result), nil
		}
		if len(softs) == 0 {
			c.state = Failed
			return nil, ErrConcretizationFailed
		}
		c.state = Unsat
		softs = softs[:len(softs)-1]
		c.state = Solving
	}
}
