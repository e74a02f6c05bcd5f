package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labs-lang/sliver/internal/config"
	"github.com/labs-lang/sliver/internal/driver"
)

var (
	backend        string
	property       string
	noProperties   bool
	steps          int
	fair           bool
	sync_          bool
	noBitvector    bool
	concretization string
	cores          int
	from, to       int
	translateCex   string
	include        []string
	values         []string
	rndSeed        int64
)

func registerVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&backend, "backend", "cbmc", "verification backend: cbmc, esbmc, cadp, nuxmv")
	cmd.Flags().StringVar(&property, "property", "", "name of the property to check (default: the first declared)")
	cmd.Flags().BoolVar(&noProperties, "no-properties", false, "skip property checking (only valid with --simulate)")
	cmd.Flags().IntVar(&steps, "steps", 0, "bound on the number of scheduling steps")
	cmd.Flags().BoolVar(&fair, "fair", false, "assume a round-robin fair scheduler")
	cmd.Flags().BoolVar(&sync_, "sync", false, "encode synchronous composition")
	cmd.Flags().BoolVar(&noBitvector, "no-bitvector", false, "disable bitvector encoding")
	cmd.Flags().StringVar(&concretization, "concretization", "src", "concretization strategy: src, sat, none")
	cmd.Flags().IntVar(&cores, "cores", 1, "parallel cores to hand the backend")
	cmd.Flags().IntVar(&from, "from", 0, "first simulation index (resume support)")
	cmd.Flags().IntVar(&to, "to", 0, "last simulation index, 0 means --simulate count")
	cmd.Flags().StringVar(&translateCex, "translate", "", "translate a stored counterexample file instead of verifying")
	cmd.Flags().StringArrayVar(&include, "include", nil, "extra C/LNT source file to splice into the generated program")
	cmd.Flags().StringArrayVar(&values, "values", nil, "key=value extern assignment")
	cmd.Flags().Int64Var(&rndSeed, "seed", 0, "random seed driving concretization and simulation")
}

func buildOptions(file string, simulate int) config.Options {
	return config.Options{
		File:           file,
		Backend:        backend,
		Property:       property,
		NoProperties:   noProperties,
		Simulate:       simulate,
		Steps:          steps,
		Fair:           fair,
		Sync:           sync_,
		BV:             !noBitvector,
		Concretization: config.Concretization(concretization),
		Cores:          cores,
		From:           from,
		To:             to,
		Timeout:        timeout,
		TranslateCex:   translateCex,
		Include:        include,
		Values:         values,
		RndSeed:        rndSeed,
		Debug:          debug,
		KeepFiles:      keepFiles,
		Show:           show,
		Verbose:        verbose,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	opts := buildOptions(args[0], 0)
	settings := loadSettings()

	outcome, derr := driver.Run(cmd.Context(), opts, settings, logger)
	if derr != nil {
		fmt.Fprintln(os.Stderr, derr.Error())
		if outcome.RenderedTrace != "" {
			fmt.Println(outcome.RenderedTrace)
		}
		os.Exit(int(outcome.ExitCode))
	}
	fmt.Println(outcome.Message)
	os.Exit(int(outcome.ExitCode))
	return nil
}
