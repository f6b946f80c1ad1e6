package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modus/internal/config"
	"modus/internal/orchestrate"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a program+query input file without producing a plan",
	Long: `Runs the same validation, kind-check, and stratification pre-check
as build/proof, then reports every diagnostic found. Exits non-zero only
if a fatal diagnostic was reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	mf, query, err := loadInput(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	_, diags := orchestrate.ProveProgram(mf, query, cfg, logger)
	if len(diags) == 0 {
		fmt.Println("ok: no diagnostics")
		return nil
	}
	for _, d := range diags {
		level := "warning"
		if d.Kind != orchestrate.ErrStratificationWarning {
			level = "error"
		}
		fmt.Printf("%s: %s: %s\n", level, d.Kind, d.Message)
		logger.Warn("diagnostic", zap.String("kind", d.Kind.String()), zap.String("detail", d.Message))
	}
	if diags.HasFatal() {
		return fmt.Errorf("check found %d diagnostic(s)", len(diags))
	}
	return nil
}
