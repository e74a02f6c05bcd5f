// Package trace decodes a backend's raw counterexample or simulation
// output into a dialect-neutral event sequence, then renders that
// sequence back into source-level vocabulary (spec.md §4.6). Three
// dialects are recognized — a BMC tool's `lhs = rhs` counterexample, a
// process-algebraic tool's quoted-action path, and nuXmv's state-separated
// SMV trace — each parsed by its own hand-written scanner (no parser
// generator in the dependency stack covers arbitrary backend CLI output)
// and lowered to the same event types here.
//
// Grounded on original_source/sliver/cex/parser.py and trace.py: the event
// shapes are a direct port, with the Python dict-of-strings state
// replaced by StoreCell/Event's explicit fields.
package trace

// StoreCell identifies which flat runtime array an event touches.
type StoreCell int

const (
	CellInterface StoreCell = iota
	CellLstig
	CellEnvironment
)

// StigmergyKind distinguishes the two ways a stigmergic assignment can
// reach an agent.
type StigmergyKind int

const (
	Propagate StigmergyKind = iota
	Confirm
	StigmergyEnd
)

// Outcome is the final verdict a backend's output settles on.
type Outcome int

const (
	Satisfied Outcome = iota
	Violated
	Deadlock
)

// Event is implemented by every neutral trace event (spec.md §3, "Trace
// (neutral form)").
type Event interface {
	event()
}

// InitAssign records one cell's initial value. Agent is -1 for environment
// cells, which have no owning agent.
type InitAssign struct {
	Store StoreCell
	Agent int
	Index int
	Value int
}

// Step marks the start of step K; it closes any still-open stigmergy event
// (spec.md §4.8, "Stigmergy event (trace)").
type Step struct {
	K int
}

// Assign records one runtime assignment during step K's execution.
type Assign struct {
	Store StoreCell
	Agent int
	Index int
	Value int
}

// StigmergyEvent marks a stigmergy propagate/confirm/end transition for
// Agent over Key.
type StigmergyEvent struct {
	Kind  StigmergyKind
	Agent int
	Key   int
}

// Spurious marks a counterexample the backend itself flagged as an
// encoding artifact rather than a genuine violation.
type Spurious struct{}

// PropertyOutcome is the final event of a trace.
type PropertyOutcome struct {
	Result Outcome
}

// Commentary surfaces a backend diagnostic line verbatim (e.g. a
// (SIMULATION) banner, or a process-algebraic action this package's
// grammar could not decode) rather than dropping it silently.
type Commentary struct {
	Text string
}

func (InitAssign) event()      {}
func (Step) event()            {}
func (Assign) event()          {}
func (StigmergyEvent) event()  {}
func (Spurious) event()        {}
func (PropertyOutcome) event() {}
func (Commentary) event()      {}
