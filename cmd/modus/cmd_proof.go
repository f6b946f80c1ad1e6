package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modus/internal/config"
	"modus/internal/orchestrate"
)

var proofCmd = &cobra.Command{
	Use:   "proof FILE",
	Short: "Resolve a query and print its proof forest, without planning",
	Long: `Runs SLD resolution only (spec §4.4), skipping the build-plan walk.
Useful for inspecting why a query resolves the way it does before
committing to a full build.`,
	Args: cobra.ExactArgs(1),
	RunE: runProof,
}

func runProof(cmd *cobra.Command, args []string) error {
	mf, query, err := loadInput(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sols, diags := orchestrate.ProveProgram(mf, query, cfg, logger)
	for _, d := range diags {
		logger.Warn("diagnostic", zap.String("kind", d.Kind.String()), zap.String("detail", d.Message))
	}
	if diags.HasFatal() {
		return fmt.Errorf("proof failed: %w", diags)
	}

	fmt.Printf("%d proof(s) found\n", len(sols))
	for i, sol := range sols {
		fmt.Printf("--- solution %d ---\n", i)
		for _, p := range sol.Proofs {
			if cfg.Output.Format == config.FormatJSON {
				data, err := p.RenderJSON()
				if err != nil {
					return fmt.Errorf("failed to render proof as JSON: %w", err)
				}
				fmt.Println(string(data))
				continue
			}
			fmt.Print(p.RenderASCII())
		}
	}
	return nil
}
