// Package driver implements the orchestrator (spec.md §4.8 C8): it
// validates CLI options, invokes the encoder, runs the property rewriter
// (for the cadp backend), dispatches to a backend adapter, and on failure
// hands the backend's raw trace to the trace translator. It does not run
// the value analyzer, so no loop assumptions are synthesized.
//
// Grounded on original_source/sliver/app/cli.py's ExitStatus/SliverError
// and backends/common.py's check_cli/check_info, with the exception-style
// SliverError replaced by a typed, wrapped Go error (REDESIGN FLAGS).
package driver

import (
	"fmt"

	"github.com/labs-lang/sliver/internal/verdict"
)

// ErrorKind is the closed set of error categories spec.md §7 surfaces to
// the user. It is an alias of verdict.ErrorKind so internal/backend (which
// must classify a subprocess exit without importing this package, see
// internal/verdict's doc comment) and this package share one vocabulary.
type ErrorKind = verdict.ErrorKind

const (
	ParseError           = verdict.ParseError
	InvalidArgs          = verdict.InvalidArgs
	BackendError         = verdict.BackendError
	Timeout              = verdict.Timeout
	Failed               = verdict.Failed
	Inconclusive         = verdict.Inconclusive
	ConcretizationFailed = verdict.ConcretizationFailed
	Killed               = verdict.Killed
)

// ExitCode is the process exit status, matching original_source/sliver's
// ExitStatus enum and spec.md §7's return-code conventions.
type ExitCode = verdict.ExitCode

const (
	ExitSuccess      = verdict.ExitSuccess
	ExitBackendError = verdict.ExitBackendError
	ExitInvalidArgs  = verdict.ExitInvalidArgs
	ExitInconclusive = verdict.ExitInconclusive
	ExitParseError   = verdict.ExitParseError
	ExitFailed       = verdict.ExitFailed
	ExitTimeout      = verdict.ExitTimeout
	ExitNotFound     = verdict.ExitNotFound
	ExitKilled       = verdict.ExitKilled
)

// DriverError is the orchestrator's single error type: every component
// boundary returns one of these (or nil), so the orchestrator can map
// straight to an exit code without re-classifying an opaque error.
type DriverError struct {
	Kind    ErrorKind
	Message string
	Trace   string // rendered counterexample, set only for Failed
	Cause   error
}

func (e *DriverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DriverError) Unwrap() error { return e.Cause }

// Wrap builds a DriverError of the given kind, wrapping cause.
func Wrap(kind ErrorKind, cause error, format string, args ...any) *DriverError {
	return &DriverError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// New builds a DriverError with no wrapped cause.
func New(kind ErrorKind, format string, args ...any) *DriverError {
	return &DriverError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
