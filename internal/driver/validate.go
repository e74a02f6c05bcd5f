package driver

import (
	"github.com/labs-lang/sliver/internal/config"
	"github.com/labs-lang/sliver/internal/info"
)

// ValidateOptions applies the CLI-level checks of
// original_source/sliver/backends/common.py's check_cli: a simulation run
// needs a nonzero step bound, and a verification run with --no-properties
// has nothing to check.
func ValidateOptions(opts config.Options) *DriverError {
	if opts.File == "" {
		return New(InvalidArgs, "FILE is required")
	}
	if opts.Simulate > 0 && opts.Steps == 0 {
		return New(InvalidArgs, "--simulate requires --steps N (with N>0)")
	}
	if opts.Simulate == 0 && opts.NoProperties {
		return New(InvalidArgs, "no property to verify: --no-properties set without --simulate")
	}
	switch opts.Concretization {
	case config.ConcretizeSource, config.ConcretizeSAT, config.ConcretizeNone:
	default:
		return New(InvalidArgs, "unrecognized --concretization %q", opts.Concretization)
	}
	return nil
}

// ValidateInfo applies common.py's check_info: a verification run needs at
// least one property (unless --no-properties was already rejected above),
// and every property's modality must be one the chosen backend supports.
func ValidateInfo(opts config.Options, inf info.Info, supportedModalities []string) *DriverError {
	if opts.Simulate > 0 {
		return nil
	}
	if len(inf.Properties) == 0 {
		return New(InvalidArgs, "no property to verify: the system declares none")
	}
	unsupported := make(map[string]bool)
	for _, p := range inf.Properties {
		unsupported[p.Modality.String()] = true
	}
	for _, ok := range supportedModalities {
		delete(unsupported, ok)
	}
	if len(unsupported) > 0 {
		for m := range unsupported {
			return New(BackendError, "backend %q does not support %q modality", opts.Backend, m)
		}
	}
	return nil
}
