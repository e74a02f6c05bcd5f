package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labs-lang/sliver/internal/driver"
)

var simulateCount int

var simulateCmd = &cobra.Command{
	Use:   "simulate FILE",
	Short: "Run N simulations instead of checking a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func registerSimulateFlags(cmd *cobra.Command) {
	registerVerifyFlags(cmd)
	cmd.Flags().IntVarP(&simulateCount, "simulate", "n", 1, "number of simulation runs")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	opts := buildOptions(args[0], simulateCount)
	settings := loadSettings()

	outcome, derr := driver.Run(cmd.Context(), opts, settings, logger)
	if derr != nil {
		fmt.Fprintln(os.Stderr, derr.Error())
		os.Exit(int(outcome.ExitCode))
	}
	for _, t := range outcome.Traces {
		fmt.Printf("-- simulation %d --\n", t.Index)
		if t.Err != nil {
			fmt.Fprintf(os.Stderr, "simulation %d failed: %v\n", t.Index, t.Err)
			continue
		}
		fmt.Println(t.Digest)
	}
	os.Exit(int(outcome.ExitCode))
	return nil
}
