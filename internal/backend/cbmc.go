package backend

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/encoder"
	"github.com/labs-lang/sliver/internal/trace"
	"github.com/labs-lang/sliver/internal/verdict"
)

// CBMC is the BMC adapter grounded on
// original_source/sliver/backends/cbmc.py: it hands CBMC the encoder's C
// output directly, with --stop-on-fail/--trace for a shortest
// counterexample and --bounds-check/--signed-overflow-check under --debug.
type CBMC struct{}

func NewCBMC() *CBMC { return &CBMC{} }

func (*CBMC) Name() string               { return "cbmc" }
func (*CBMC) Language() encoder.Encoding { return encoder.C }
func (*CBMC) Modalities() []string {
	return []string{"always", "finally", "eventually", "between"}
}
func (*CBMC) RunsValueAnalysis() bool { return true }
func (*CBMC) NativeSimulation() bool  { return false }

func (*CBMC) Preprocess(code, _ string) string { return code }

func (*CBMC) VerifyCommand(fname string, s Settings) []string {
	cmd := []string{s.ExecutablePath, "--trace", "--stop-on-fail"}
	if s.Debug {
		cmd = append(cmd, "--bounds-check", "--signed-overflow-check")
	}
	return append(cmd, fname)
}

// SimulateCommand mirrors cbmc.py's simulate loop: one invocation per
// requested trace, optionally routed through an external SAT solver when
// concretization is "sat" (modeled here as an extra flag pointing at
// "<fname>.minisat.sh"; nothing in this module writes that wrapper
// script).
func (c *CBMC) SimulateCommand(fname string, s Settings, _ int) []string {
	cmd := c.VerifyCommand(fname, s)
	if s.Concretization == "sat" {
		cmd = append(cmd, "--external-sat-solver", fmt.Sprintf("%s.minisat.sh", fname))
	}
	return cmd
}

func (*CBMC) ClassifyExit(exitCode int, stdout, _ string) (verdict.ErrorKind, bool) {
	switch exitCode {
	case 0:
		return 0, true
	case 10:
		return verdict.Failed, false
	case 6:
		return verdict.ParseError, false
	case 124:
		return verdict.Timeout, false
	default:
		_ = stdout
		return verdict.BackendError, false
	}
}

func (*CBMC) ParseTrace(output string) []trace.Event { return trace.ParseBMC(output) }
