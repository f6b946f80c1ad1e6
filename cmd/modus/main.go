// Package main implements the modus CLI: build, proof, check, and
// mangle-export subcommands over the core compilation pipeline in
// internal/orchestrate.
//
// This file serves as the entry point and command registration hub, the
// actual subcommands are split across cmd_*.go files.
//
// # File Index
//
//   - main.go        - entry point, rootCmd, global flags, init()
//   - cmd_build.go   - buildCmd: full program+query -> BuildPlan JSON
//   - cmd_proof.go   - proofCmd: program+query -> proof forest, no planning
//   - cmd_check.go   - checkCmd: program+query -> diagnostics only
//   - cmd_export.go  - exportCmd: program -> Mangle source text
//   - input.go       - loadInput(): shared query-file JSON decoding
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modus/internal/logging"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "modus",
	Short: "Datalog-based container build system",
	Long: `modus compiles a (program, query) pair into a container build plan.

Logic determines the build graph; modus never runs a builder, resolves a
digest, or touches the filesystem beyond reading its own input files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a modus.yaml config file")

	rootCmd.AddCommand(buildCmd, proofCmd, checkCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
