package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labs-lang/sliver/internal/verdict"
)

func TestRunStateMachineRejectsSkippedTransitions(t *testing.T) {
	r := NewRun()
	assert.Equal(t, NeedInput, r.State())
	assert.False(t, r.Advance(Reporting))
	assert.True(t, r.Advance(Encoding))
	assert.True(t, r.Advance(Verifying))
	assert.True(t, r.Advance(Reporting))
	assert.True(t, r.Advance(Done))
	assert.False(t, r.Advance(Verifying))
}

func TestByNameResolvesKnownBackends(t *testing.T) {
	for _, name := range []string{"cbmc", "esbmc", "cadp", "nuxmv"} {
		a, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}
	_, err := ByName("bogus")
	assert.Error(t, err)
}

func TestCBMCClassifyExit(t *testing.T) {
	c := NewCBMC()
	kind, ok := c.ClassifyExit(0, "", "")
	assert.True(t, ok)
	kind, ok = c.ClassifyExit(10, "", "")
	assert.False(t, ok)
	assert.Equal(t, verdict.Failed, kind)
	kind, ok = c.ClassifyExit(6, "", "")
	assert.False(t, ok)
	assert.Equal(t, verdict.ParseError, kind)
}

func TestESBMCClassifyExitInconclusiveOnUnknown(t *testing.T) {
	e := NewESBMC()
	kind, ok := e.ClassifyExit(0, "VERIFICATION UNKNOWN", "")
	assert.False(t, ok)
	assert.Equal(t, verdict.Inconclusive, kind)
}

func TestCADPClassifyExitDetectsViolationInStdout(t *testing.T) {
	c := NewCADP()
	kind, ok := c.ClassifyExit(0, "evaluator.bcg\nFALSE\n", "")
	assert.False(t, ok)
	assert.Equal(t, verdict.Failed, kind)
}

func TestESBMCVerifyCommandDropsBoundsCheckWhenNotDebug(t *testing.T) {
	e := NewESBMC()
	cmd := e.VerifyCommand("prog.c", Settings{ExecutablePath: "esbmc"})
	assert.Contains(t, cmd, "--no-bounds-check")
}
