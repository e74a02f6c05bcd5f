// Package backend implements the per-backend adapters of spec.md §4.7/§4.8
// (C7): command-line construction, the temp-file lifecycle, pre/post
// processing, exit-code classification, and the simulation loop.
//
// Grounded on original_source/sliver/backends/common.py's Backend base
// class (check_cli/check_info/make_slug/cleanup) and the four concrete
// backends (cbmc.py, esbmc.py, cadp.py, nuxmv.py), with the Python
// exception-driven control flow replaced by the state machine of §4.8 and
// typed DriverError returns (REDESIGN FLAGS).
package backend

import (
	"github.com/labs-lang/sliver/internal/encoder"
	"github.com/labs-lang/sliver/internal/trace"
	"github.com/labs-lang/sliver/internal/verdict"
)

// Adapter is the per-backend contract every concrete backend in this
// package implements (spec.md §4.7 "Common contract").
type Adapter interface {
	Name() string
	Language() encoder.Encoding
	// Modalities lists the temporal modalities this backend can check
	// (common.py's check_property_support).
	Modalities() []string
	// RunsValueAnalysis reports whether this backend belongs to the family
	// whose verify path uses value-analysis loop invariants: the BMC
	// backends and the compositional process-algebraic one report true,
	// nuXmv reports false. driver.Run does not consult it and never runs
	// internal/valueanalysis, so no loop invariants are emitted for any
	// backend.
	RunsValueAnalysis() bool
	// NativeSimulation reports whether the backend itself drives
	// simulation (cadp, nuxmv), as opposed to relying on the
	// concretizer to produce a fully concrete program per trace
	// (cbmc, esbmc).
	NativeSimulation() bool

	// Preprocess adapts the encoder's raw output to what this backend's
	// toolchain accepts (cadp.py's module-rename, esbmc.py's macro
	// preprocessing).
	Preprocess(code, fname string) string

	// VerifyCommand builds the argv to check fname for property
	// violations.
	VerifyCommand(fname string, settings Settings) []string
	// SimulateCommand builds the argv to obtain one simulated run of
	// fname. Only meaningful when NativeSimulation is true.
	SimulateCommand(fname string, settings Settings, iteration int) []string

	// ClassifyExit maps a subprocess exit code (and its stdout, needed
	// to distinguish e.g. ESBMC's "VERIFICATION UNKNOWN") to an
	// ErrorKind, following each backend's handle_error/handle_success.
	// ok is true when the run completed without violating the property.
	ClassifyExit(exitCode int, stdout, stderr string) (kind verdict.ErrorKind, ok bool)

	// ParseTrace decodes this backend's counterexample dialect into the
	// neutral trace.Event sequence of spec.md §3 (C6).
	ParseTrace(output string) []trace.Event
}

// Settings is the subset of config.BackendSettings an Adapter needs to
// build a command line, kept narrow so this package does not import
// internal/config (command construction is backend-local; option
// resolution belongs to the orchestrator).
type Settings struct {
	ExecutablePath string
	Steps          int
	Debug          bool
	Fair           bool
	Timeout        int // seconds; 0 disables
	Cores          int
	From, To       int
	Concretization string // "src" | "sat" | "none"
}
