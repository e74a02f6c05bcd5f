package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/info"
)

func TestParseBMCDecodesStepsAssignmentsAndSpurious(t *testing.T) {
	output := `
Counterexample:

State 1 file model.c function main line 10 thread 0
----------------------------------------------------
__LABS_step = 0
scheduled = 2
I[2][0] = 5

State 2 file model.c function main line 12 thread 0
----------------------------------------------------
E[0] = 7
__sim_spurious = TRUE

Violated property:
`
	events := ParseBMC(output)
	require.NotEmpty(t, events)

	assert.Contains(t, events, Step{K: 0})
	assert.Contains(t, events, Assign{Store: CellInterface, Agent: 2, Index: 0, Value: 5})
	assert.Contains(t, events, Assign{Store: CellEnvironment, Agent: -1, Index: 0, Value: 7})
	assert.Equal(t, Spurious{}, events[len(events)-1])
}

func TestParseBMCCollapsesRepeatedArrayWidePrints(t *testing.T) {
	output := `
Counterexample:
State 1 file model.c function main line 1 thread 0
----------------------------------------------------
I[0][0] = 3
I[0][0] = 3
I[0][0] = 3
Violated property:
`
	events := ParseBMC(output)
	count := 0
	for _, e := range events {
		if a, ok := e.(Assign); ok && a.Agent == 0 && a.Index == 0 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseBMCDecodesStigmergyPropagate(t *testing.T) {
	output := `
Counterexample:
State 1 file model.c function propagate_key line 1 thread 0
----------------------------------------------------
scheduled = 3
guessedkey = 9
__LABS_step = 1
Violated property:
`
	events := ParseBMC(output)
	assert.Contains(t, events, StigmergyEvent{Kind: Propagate, Agent: 3, Key: 9})
}

func TestParsePADecodesMonitorAndCells(t *testing.T) {
	output := `
<initial state>
"ATTR !0 !0 !4"
"ENDINIT"
"E !0 !2"
"MONITOR !true"
<goal state>
`
	events := ParsePA(output)
	assert.Contains(t, events, InitAssign{Store: CellInterface, Agent: 0, Index: 0, Value: 4})
	assert.Contains(t, events, Assign{Store: CellEnvironment, Agent: -1, Index: 0, Value: 2})
	assert.Contains(t, events, PropertyOutcome{Result: Satisfied})
}

func TestParsePASurfacesUnparseableActions(t *testing.T) {
	output := `
<initial state>
"ENDINIT"
"UNKNOWNSHAPE !x !y"
<deadlock>
`
	events := ParsePA(output)
	found := false
	for _, e := range events {
		if c, ok := e.(Commentary); ok {
			assert.Contains(t, c.Text, "UNKNOWNSHAPE")
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseNuXmvDecodesInitAndSteps(t *testing.T) {
	output := `
-> State: 1.1 <-
  I[0][0] = 1
-> State: 1.2 <-
  I[0][0] = 2
`
	events := ParseNuXmv(output)
	assert.Contains(t, events, InitAssign{Store: CellInterface, Agent: 0, Index: 0, Value: 1})
	assert.Contains(t, events, Step{K: 1})
	assert.Contains(t, events, Assign{Store: CellInterface, Agent: 0, Index: 0, Value: 2})
}

func TestRenderWrapsInitializationAndStigmergy(t *testing.T) {
	inf := info.Info{Spawn: info.Spawn{Kinds: []info.AgentKind{
		{Name: "A", Lo: 0, Hi: 2, Iface: []info.Variable{{Name: "x", Index: 0, Size: 1}}},
	}}}
	events := []Event{
		InitAssign{Store: CellInterface, Agent: 0, Index: 0, Value: 1},
		Step{K: 0},
		StigmergyEvent{Kind: Propagate, Agent: 0, Key: 3},
		Step{K: 1},
	}
	out := Render(events, inf)
	assert.Contains(t, out, "<initialization>")
	assert.Contains(t, out, "<end initialization>")
	assert.Contains(t, out, "<agent 0: propagate 3>")
	assert.Contains(t, out, "<end propagate>")
	assert.Contains(t, out, "A 0:  x ← 1")
}
