package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modus/internal/config"
	"modus/internal/orchestrate"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Compile a program+query input file into a BuildPlan",
	Long: `Reads a JSON input file (modusfile + query), resolves the query,
and prints the resulting BuildPlan as JSON.

Example:
  modus build app.json
  modus build app.json --output plan.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "write the plan to this file instead of stdout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	mf, query, err := loadInput(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bp, diags := orchestrate.PlanFromProgram(context.Background(), mf, query, cfg, logger)
	for _, d := range diags {
		logger.Warn("diagnostic", zap.String("kind", d.Kind.String()), zap.String("detail", d.Message))
	}
	if diags.HasFatal() {
		return fmt.Errorf("build failed: %w", diags)
	}

	data, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if buildOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	// A temporary run id ties this plan to whatever build-context artifacts
	// the driver stages alongside it, matching the teacher's convention of
	// a google/uuid-tagged session id for a one-shot operation.
	runID := uuid.NewString()
	logger.Info("writing plan", zap.String("run_id", runID), zap.String("path", buildOutput))
	return os.WriteFile(buildOutput, data, 0644)
}
