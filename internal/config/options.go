// Package config holds the driver's CLI option struct and the on-disk
// settings file it merges against, following the teacher's
// default-config-then-merge shape (internal/config/config.go:
// DefaultConfig + yaml.Unmarshal overlay).
package config

import "time"

// Concretization selects how the simulator obtains concrete values
// (spec.md §6, "concretization: {src|sat|none}").
type Concretization string

const (
	ConcretizeSource Concretization = "src"
	ConcretizeSAT    Concretization = "sat"
	ConcretizeNone   Concretization = "none"
)

// Options is the resolved set of CLI flags (spec.md §6 "CLI"), built by
// cmd/sliver from Cobra flags and merged with Settings.
type Options struct {
	File           string
	Backend        string
	Property       string
	NoProperties   bool
	Simulate       int
	Steps          int
	Fair           bool
	Sync           bool
	BV             bool
	Concretization Concretization
	Cores          int
	From           int
	To             int
	Timeout        time.Duration
	TranslateCex   string
	Include        []string
	Values         []string
	RndSeed        int64
	Debug          bool
	KeepFiles      bool
	Show           bool
	Verbose        bool
}

// DefaultOptions mirrors original_source/sliver/app/cli.py's DEFAULTS
// table.
func DefaultOptions() Options {
	return Options{
		Backend:        "cbmc",
		BV:             true,
		Concretization: ConcretizeSource,
		Cores:          1,
		Simulate:       0,
		Steps:          0,
	}
}
