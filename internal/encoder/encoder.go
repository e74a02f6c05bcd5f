// Package encoder models the external encoder's contract (spec.md §6):
// the program this module never reimplements, but whose command line,
// placeholder sentinels, and "info" bundle text format are data this
// module must produce and consume.
//
// Grounded on original_source/sliver/backends/common.py's
// `_labs_cmdline`/`generate_code` (command construction, ___includes___
// splicing) and original_source/sliver/app/info.py (the "info" bundle
// wire format).
package encoder

import (
	"fmt"
	"strings"
)

// Encoding selects which target the encoder emits (spec.md §6).
type Encoding int

const (
	C Encoding = iota
	MCL
	MCLParallel
	NuXmvSMV
)

func (e Encoding) String() string {
	return [...]string{"c", "lnt-monitor", "lnt-parallel", "nuxmv"}[e]
}

// Extension returns the file suffix the encoder's output is conventionally
// written with, mirroring common.py's Language enum.
func (e Encoding) Extension() string {
	if e == NuXmvSMV {
		return "smv"
	}
	if e == C {
		return "c"
	}
	return "lnt"
}

// Sentinel placeholder comment pairs the encoder's C output carries
// (spec.md §6, "Encoder contract"). The concretizer fills the
// concrete-* pair verbatim and blanks the symbolic-* pair, or vice versa
// for a fully symbolic BMC run.
const (
	SentinelConcreteGlobalsStart = "___concrete-globals___"
	SentinelConcreteGlobalsEnd   = "___end concrete-globals___"
	SentinelConcreteInitStart   = "___concrete-init___"
	SentinelConcreteInitEnd     = "___end concrete-init___"
	SentinelConcreteSched       = "___concrete-scheduler___"
	SentinelSymbolicSched       = "___symbolic-scheduler___"
	SentinelSymbolicPick        = "___symbolic-pick___"
	SentinelSymbolicInit        = "___symbolic-init___"
	SentinelIncludes            = "___includes___"
)

// InvocationArgs mirrors common.py's `_labs_cmdline`: the flags passed to
// the external encoder binary to obtain either generated code or the
// info bundle.
type InvocationArgs struct {
	File         string
	Bound        int
	Encoding     Encoding
	Fair         bool
	Simulate     bool
	NoBitvector  bool
	Sync         bool
	Property     string
	NoProperties bool
	Values       []string // "key=value" extern assignments
	Info         bool     // append --info instead of emitting a program
}

// CommandLine renders the argv the encoder binary expects, in the same
// flag order as common.py's `_labs_cmdline` (so golden-file diffs against
// the Python tool's invocation log stay stable).
func (a InvocationArgs) CommandLine(encoderPath string) []string {
	call := []string{
		encoderPath,
		"--file", a.File,
		"--bound", fmt.Sprintf("%d", a.Bound),
		"--enc", a.Encoding.String(),
	}
	if a.Fair {
		call = append(call, "--fair")
	}
	if a.Simulate {
		call = append(call, "--simulation")
	}
	if a.NoBitvector {
		call = append(call, "--no-bitvector")
	}
	if a.Sync {
		call = append(call, "--sync")
	}
	if a.Property != "" {
		call = append(call, "--property", a.Property)
	}
	if a.NoProperties {
		call = append(call, "--no-properties")
	}
	if len(a.Values) > 0 {
		call = append(call, "--values")
		call = append(call, a.Values...)
	}
	if a.Info {
		call = append(call, "--info")
	}
	return call
}

// SpliceIncludes replaces the ___includes___ sentinel with the
// concatenation of the named --include files' contents, matching
// common.py's generate_code splicing. readFile is injected so callers
// control actual file I/O.
func SpliceIncludes(code string, includePaths []string, readFile func(string) (string, error)) (string, error) {
	included := ""
	for _, path := range includePaths {
		content, err := readFile(path)
		if err != nil {
			return "", fmt.Errorf("reading --include %s: %w", path, err)
		}
		included += content
	}
	return strings.Replace(code, SentinelIncludes, included, 1), nil
}
