// Package modus is the public facade over internal/orchestrate, the same
// role pkg/mangle/mangle.go plays for internal/mangle: re-export just
// enough of the internal engine for external tools to drive a build
// without reaching into an internal/ package.
package modus

import (
	"context"

	"go.uber.org/zap"

	"modus/internal/config"
	"modus/internal/logic"
	"modus/internal/orchestrate"
	"modus/internal/plan"
	"modus/internal/surface"
)

// Re-exported types so callers never need to import modus/internal/...
// directly.
type (
	BuildPlan    = plan.BuildPlan
	BuildNode    = plan.BuildNode
	Config       = config.Config
	Diagnostic   = orchestrate.Diagnostic
	Diagnostics  = orchestrate.Diagnostics
	ErrorKind    = orchestrate.ErrorKind
	Modusfile    = surface.Modusfile
	ModusClause  = surface.ModusClause
	Expression   = surface.Expression
	Literal      = surface.Literal
	SourceSpan   = logic.SourceSpan
)

var DefaultConfig = config.DefaultConfig
var LoadConfig = config.Load

// Plan runs the full plan-from-program pipeline (spec §4.6) and returns
// the resulting BuildPlan, or the diagnostics explaining why none could be
// produced.
func Plan(ctx context.Context, mf Modusfile, query Expression, cfg *Config, logger *zap.Logger) (*BuildPlan, Diagnostics) {
	return orchestrate.PlanFromProgram(ctx, mf, query, cfg, logger)
}

// TopologicalOrder returns the ids of a BuildPlan's reachable nodes in
// topological build order, the shape a driver consumes (spec §6).
func TopologicalOrder(bp *BuildPlan) []int {
	return bp.TopologicalOrder()
}
