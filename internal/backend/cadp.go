package backend

import (
	"fmt"
	"strings"

	"github.com/labs-lang/sliver/internal/encoder"
	"github.com/labs-lang/sliver/internal/trace"
	"github.com/labs-lang/sliver/internal/verdict"
)

// CADP is grounded on original_source/sliver/backends/cadp.py's
// CadpCompositional class: it drives CADP through an SVL script over the
// parallel-composition LNT encoding. RunsValueAnalysis reports true, but
// the orchestrator does not run the value analyzer, so the encoding gets
// no "GOODIFACE"/"GOODLSTIG" loop-invariant guards. Simulation runs the
// executor on the same parallel LNT encoding; there is no monitor-encoding
// fallback. The monitor-only and non-compositional "cadp" workflows
// (CadpMonitor, Cadp in the same file) are not modeled separately.
type CADP struct{}

func NewCADP() *CADP { return &CADP{} }

func (*CADP) Name() string               { return "cadp" }
func (*CADP) Language() encoder.Encoding { return encoder.MCLParallel }
func (*CADP) Modalities() []string {
	return []string{"always", "eventually", "fairly", "fairly_inf", "finally"}
}
func (*CADP) RunsValueAnalysis() bool { return true }
func (*CADP) NativeSimulation() bool  { return true }

// Preprocess renames the encoder's generic HEADER module to a
// file-stem-derived identifier, matching cadp.py's monitor-encoding
// preprocess (an LNT module name must be a valid identifier unique per
// file). This method only performs the module rename; no GOODIFACE/
// GOODLSTIG loop-invariant splicing happens here or in the orchestrator.
func (*CADP) Preprocess(code, fname string) string {
	base := strings.ToUpper(strings.TrimSuffix(fname, ".lnt"))
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.Replace(code, "module HEADER is", fmt.Sprintf("module %s is", base), 1)
}

// VerifyCommand invokes the SVL script the orchestrator has already
// written to svlFname (cadp.py builds and generates it, then generates
// and minimizes the BCG, before ever calling the evaluator; all of that
// belongs to the SVL script text itself, not this argv).
func (*CADP) VerifyCommand(svlFname string, s Settings) []string {
	return []string{s.ExecutablePath, svlFname}
}

func (*CADP) SimulateCommand(fname string, s Settings, _ int) []string {
	return []string{"lnt.open", fname, "executor", fmt.Sprintf("%d", s.Steps), "2"}
}

func (*CADP) ClassifyExit(exitCode int, stdout, _ string) (verdict.ErrorKind, bool) {
	if exitCode != 0 {
		if exitCode == 124 {
			return verdict.Timeout, false
		}
		return verdict.BackendError, false
	}
	if strings.Contains(stdout, "\nFALSE\n") || strings.Contains(stdout, "\nFAIL\n") {
		return verdict.Failed, false
	}
	return 0, true
}

func (*CADP) ParseTrace(output string) []trace.Event { return trace.ParsePA(output) }
