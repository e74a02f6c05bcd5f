// Package main implements the sliver CLI entry point.
//
// File index:
//
//	main.go   - rootCmd, global flags, logger setup, init()
//	verify.go - verifyCmd: builds config.Options and calls driver.Run
//	simulate.go - simulateCmd: the --simulate-only convenience alias
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/labs-lang/sliver/internal/config"
	"github.com/labs-lang/sliver/internal/obs"
)

var (
	verbose     bool
	debug       bool
	keepFiles   bool
	show        bool
	settingsPath string
	timeout     time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sliver FILE",
	Short: "Bounded-model-check a LABS system against its declared properties",
	Long: `sliver drives an external LABS encoder and a chosen bounded-model-checking
or process-algebraic backend to verify or simulate a multi-agent system's
temporal properties.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = obs.NewLogger(verbose || debug)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			obs.Sync(logger)
		}
	},
	RunE: runVerify,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "pass debug checks to the backend (bounds/overflow)")
	rootCmd.PersistentFlags().BoolVar(&keepFiles, "keep-files", false, "keep the scratch directory after the run")
	rootCmd.PersistentFlags().BoolVar(&show, "show", false, "print the generated emulation program before running it")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "path to a backend/encoder settings YAML file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "per-subprocess timeout")

	registerVerifyFlags(rootCmd)

	rootCmd.AddCommand(simulateCmd)
	registerSimulateFlags(simulateCmd)
}

func loadSettings() config.Settings {
	s, err := config.LoadSettings(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		return config.DefaultSettings()
	}
	return s
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
