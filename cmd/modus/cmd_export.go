package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modus/internal/lower"
	"modus/internal/stratify"
)

var exportCmd = &cobra.Command{
	Use:   "mangle-export FILE",
	Short: "Dump the lowered clause database as Mangle source text",
	Long: `Lowers a surface program and renders it as Mangle source, the same
text internal/stratify feeds to mangle's own analyzer. Useful for
inspecting a program with the real mangle toolchain directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	mf, err := loadModusfile(args[0])
	if err != nil {
		return err
	}
	clauses := lower.Modusfile(mf)
	fmt.Print(stratify.Render(clauses))
	return nil
}
