package backend

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/encoder"
	"github.com/labs-lang/sliver/internal/trace"
	"github.com/labs-lang/sliver/internal/verdict"
)

// NuXmv is grounded on original_source/sliver/backends/nuxmv.py: it checks
// the encoder's SMV model directly, and for simulation drives nuXmv
// interactively via a -source script (go_msat/msat_pick_state/
// msat_simulate/show_traces), which this module emits as a sibling
// "<fname>.sim" file rather than a Python tempfile.NamedTemporaryFile.
type NuXmv struct{}

func NewNuXmv() *NuXmv { return &NuXmv{} }

func (*NuXmv) Name() string               { return "nuxmv" }
func (*NuXmv) Language() encoder.Encoding { return encoder.NuXmvSMV }
func (*NuXmv) Modalities() []string {
	return []string{"always", "finally", "eventually", "between"}
}
func (*NuXmv) RunsValueAnalysis() bool { return false }
func (*NuXmv) NativeSimulation() bool  { return true }

func (*NuXmv) Preprocess(code, _ string) string { return code }

func (*NuXmv) VerifyCommand(fname string, s Settings) []string {
	return []string{s.ExecutablePath, fname}
}

// SimScript builds the -source script text for steps*2 simulated
// transitions (one per step, input+output half-step), matching
// nuxmv.py's SIM_SCRIPT.
func (*NuXmv) SimScript(steps int) string {
	return fmt.Sprintf(
		"go_msat\nmsat_pick_state\nmsat_simulate -k %d\nshow_traces\nquit\n",
		steps*2)
}

func (n *NuXmv) SimulateCommand(fname string, s Settings, _ int) []string {
	return []string{s.ExecutablePath, "-source", fname + ".sim", fname}
}

func (*NuXmv) ClassifyExit(exitCode int, _, _ string) (verdict.ErrorKind, bool) {
	if exitCode == 0 {
		return 0, true
	}
	if exitCode == 124 {
		return verdict.Timeout, false
	}
	return verdict.BackendError, false
}

func (*NuXmv) ParseTrace(output string) []trace.Event { return trace.ParseNuXmv(output) }
