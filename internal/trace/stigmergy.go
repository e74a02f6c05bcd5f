package trace

// StigState is a node of the per-agent stigmergy event state machine
// (spec.md §4.8: "None → Propagating(agent) → InKey(agent) → None" on
// __LABS_step, or "None → Confirming(agent) → InKey(agent) → None").
type StigState int

const (
	StigIdle StigState = iota
	StigPropagating
	StigConfirming
	StigInKey
)

// StigmergyFSM tracks at most one open stigmergy event at a time, as the
// BMC and nuXmv dialects only ever interleave one `guessedkey` write
// before its closing `__LABS_step`.
type StigmergyFSM struct {
	state StigState
	agent int
	key   int
	kind  StigmergyKind
}

// Open begins a propagate or confirm event for agent, inferred by the
// caller from the surrounding function name.
func (f *StigmergyFSM) Open(kind StigmergyKind, agent int) {
	f.kind = kind
	f.agent = agent
	if kind == Propagate {
		f.state = StigPropagating
	} else {
		f.state = StigConfirming
	}
}

// Key records the guessed key value, completing the event (spec.md §4.6:
// "guessedkey = k opens a stigmergy event").
func (f *StigmergyFSM) Key(k int) {
	if f.state == StigPropagating || f.state == StigConfirming {
		f.key = k
		f.state = StigInKey
	}
}

// Close flushes an InKey event back to Idle, reporting whether one was
// open.
func (f *StigmergyFSM) Close() (StigmergyEvent, bool) {
	if f.state != StigInKey {
		return StigmergyEvent{}, false
	}
	ev := StigmergyEvent{Kind: f.kind, Agent: f.agent, Key: f.key}
	*f = StigmergyFSM{}
	return ev, true
}
