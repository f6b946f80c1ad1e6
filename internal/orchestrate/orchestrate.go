// Package orchestrate implements the top-level plan-from-program pipeline
// (spec §4.6): validate the query, synthesize a `_query` clause, lower the
// program, kind-check the query, run mangle's stratification analysis as a
// pre-resolution sanity pass, resolve `_query` via SLD, and hand every
// proof's image literal to the build planner.
//
// Grounded on _examples/original_source/modus-lib/src/imagegen.rs's
// plan_from_modusfile (validate_query_expression / get_image_literal /
// the depth-175 sld.sld call with store_tree=false / proofs / build_dag_
// from_proofs wiring) and the teacher's Engine.Query context-timeout-via-
// goroutine pattern in internal/mangle/engine.go for the cancellable-call
// shape.
package orchestrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"modus/internal/config"
	"modus/internal/kindcheck"
	"modus/internal/logic"
	"modus/internal/lower"
	"modus/internal/plan"
	"modus/internal/resolve"
	"modus/internal/stratify"
	"modus/internal/surface"
)

// ErrorKind enumerates every diagnostic kind the pipeline can report,
// matching spec §7's error table.
type ErrorKind int

const (
	ErrQueryUsesOperator ErrorKind = iota
	ErrQueryImageCountWrong
	ErrQueryContainsLayer
	ErrMaxDepthExceeded
	ErrUngroundedNegation
	ErrPlannerRuleViolation
	ErrUnknownOperator
	ErrNoInstructions
	ErrStratificationWarning
	ErrTimeout
	ErrFactLimitExceeded
	ErrStepLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrQueryUsesOperator:
		return "QueryUsesOperator"
	case ErrQueryImageCountWrong:
		return "QueryImageCountWrong"
	case ErrQueryContainsLayer:
		return "QueryContainsLayer"
	case ErrMaxDepthExceeded:
		return "MaxDepthExceeded"
	case ErrUngroundedNegation:
		return "UngroundedNegation"
	case ErrPlannerRuleViolation:
		return "PlannerRuleViolation"
	case ErrUnknownOperator:
		return "UnknownOperator"
	case ErrNoInstructions:
		return "NoInstructions"
	case ErrStratificationWarning:
		return "StratificationWarning"
	case ErrTimeout:
		return "Timeout"
	case ErrFactLimitExceeded:
		return "FactLimitExceeded"
	case ErrStepLimitExceeded:
		return "StepLimitExceeded"
	default:
		return "Unknown"
	}
}

// Diagnostic is one reported problem, with the ground truth of what went
// wrong (Kind) and a human-readable Message. Span is nil when the
// triggering location isn't traceable to surface source (e.g. a planner
// invariant violation discovered deep in a derivation).
type Diagnostic struct {
	Kind    ErrorKind
	Message string
	Span    *logic.SourceSpan
}

func (d Diagnostic) Error() string { return d.Message }

// Diagnostics is a non-empty collection of Diagnostic, satisfying error.
// Per spec §7, independent checks are collected rather than short-
// circuited wherever more than one check applies at the same stage (e.g.
// the two query-kind checks in step 3).
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	if len(ds) == 1 {
		return ds[0].Message
	}
	s := fmt.Sprintf("%d diagnostics:", len(ds))
	for _, d := range ds {
		s += "\n  - " + d.Message
	}
	return s
}

// HasFatal reports whether any diagnostic in ds should stop the pipeline,
// as opposed to an advisory StratificationWarning.
func (ds Diagnostics) HasFatal() bool {
	for _, d := range ds {
		if d.Kind != ErrStratificationWarning {
			return true
		}
	}
	return false
}

const queryPredicate = "_query"

// PlanFromProgram runs the full pipeline described above. cfg supplies the
// depth bound and store-tree flag (internal/config); logger receives
// warnings (e.g. a stratification concern) and is threaded into the
// planner. A nil cfg or logger falls back to defaults.
func PlanFromProgram(ctx context.Context, mf surface.Modusfile, query surface.Expression, cfg *config.Config, logger *zap.Logger) (*plan.BuildPlan, Diagnostics) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	type result struct {
		bp   *plan.BuildPlan
		diag Diagnostics
	}
	done := make(chan result, 1)
	go func() {
		bp, diag := planFromProgramSync(mf, query, cfg, logger)
		done <- result{bp, diag}
	}()

	select {
	case r := <-done:
		return r.bp, r.diag
	case <-ctx.Done():
		return nil, Diagnostics{{Kind: ErrTimeout, Message: ctx.Err().Error()}}
	}
}

// resolved bundles everything steps 1-4 produce, shared between
// PlanFromProgram (which goes on to plan) and ProveProgram (which stops
// after resolution).
type resolved struct {
	clauses        []logic.Clause
	kinds          kindcheck.Kinds
	imagePredicate string
	sols           []resolve.Solution
}

// resolveQuery runs spec §4.6 steps 1-4: validate, synthesize+lower,
// kind-check, stratification pre-check, SLD resolution.
func resolveQuery(mf surface.Modusfile, query surface.Expression, cfg *config.Config, logger *zap.Logger) (*resolved, Diagnostics) {
	var diags Diagnostics

	// Step 1: validate the query shape.
	diags = append(diags, validateQueryExpression(query)...)

	// Step 2: synthesize `_query :- <query_expression>` and lower everything.
	queryClause := surface.ModusClause{
		Head: surface.Literal{Positive: true, Predicate: queryPredicate},
		Body: query,
	}
	clauses := lower.Modusfile(mf)
	clauses = append(clauses, lower.Clause(queryClause)...)

	// SPEC_FULL.md §11's evaluation safety limit: reject an oversized
	// program before sinking any work into kind-checking or resolution.
	if cfg.Limits.MaxFacts > 0 && len(clauses) > cfg.Limits.MaxFacts {
		diags = append(diags, Diagnostic{
			Kind:    ErrFactLimitExceeded,
			Message: fmt.Sprintf("lowered program has %d clauses, exceeding the configured limit of %d", len(clauses), cfg.Limits.MaxFacts),
		})
		return nil, diags
	}

	// Step 3: kind-check the query's literals.
	kinds := kindcheck.Infer(clauses)
	imageCount, layerCount := countQueryKinds(query, kinds)
	if imageCount != 1 {
		diags = append(diags, Diagnostic{
			Kind:    ErrQueryImageCountWrong,
			Message: fmt.Sprintf("there must be exactly one image predicate in the query, but %d were found", imageCount),
		})
	}
	if layerCount > 0 {
		diags = append(diags, Diagnostic{
			Kind:    ErrQueryContainsLayer,
			Message: fmt.Sprintf("layer predicates in queries are currently unsupported, but %d were found", layerCount),
		})
	}
	if diags.HasFatal() {
		return nil, diags
	}

	// Pre-resolution sanity pass: mangle's own stratification analysis,
	// advisory only (the resolver itself still catches ungrounded negation
	// at evaluation time).
	for _, d := range stratify.Check(clauses) {
		logger.Warn("stratification concern", zap.String("detail", d.Message))
		diags = append(diags, Diagnostic{Kind: ErrStratificationWarning, Message: d.Message})
	}

	// Step 4: resolve `_query`.
	queryGoal := logic.Literal{Positive: true, Predicate: queryPredicate}
	sols, errs := resolve.Resolve(clauses, []logic.Literal{queryGoal}, resolve.Options{
		MaxDepth:  cfg.Resolution.MaxDepth,
		StoreTree: cfg.Resolution.StoreTree,
		MaxSteps:  cfg.Limits.MaxSteps,
	})
	for _, e := range errs {
		if e.Kind == resolve.ErrBuiltinFailure && len(sols) > 0 {
			// A dead builtin branch is reported only when no branch succeeded.
			continue
		}
		diags = append(diags, resolveErrorToDiagnostic(e))
	}
	if len(sols) == 0 {
		diags = append(diags, Diagnostic{Kind: ErrNoInstructions, Message: "query resolved to no solutions"})
		return nil, diags
	}

	return &resolved{
		clauses:        clauses,
		kinds:          kinds,
		imagePredicate: findImagePredicate(query, kinds),
		sols:           sols,
	}, diags
}

// ProveProgram runs steps 1-4 of the pipeline only, returning every
// solution's proof forest without invoking the build planner. This backs
// `modus proof`.
func ProveProgram(mf surface.Modusfile, query surface.Expression, cfg *config.Config, logger *zap.Logger) ([]resolve.Solution, Diagnostics) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r, diags := resolveQuery(mf, query, cfg, logger)
	if r == nil {
		return nil, diags
	}
	return r.sols, diags
}

func planFromProgramSync(mf surface.Modusfile, query surface.Expression, cfg *config.Config, logger *zap.Logger) (*plan.BuildPlan, Diagnostics) {
	r, diags := resolveQuery(mf, query, cfg, logger)
	if r == nil {
		return nil, diags
	}

	// Step 5: pair every proof with the query's image literal, substituted
	// under that proof's valuation. Because `_query`'s single Proof node
	// already carries the ground literal each body goal resolved to, the
	// image literal is simply the child whose predicate matches.
	var queries []plan.QueryProof
	for _, sol := range r.sols {
		if len(sol.Proofs) != 1 {
			continue
		}
		root := sol.Proofs[0]
		for _, child := range root.Children {
			if child.Literal.Predicate == r.imagePredicate {
				queries = append(queries, plan.QueryProof{Query: child.Literal, Proofs: []*resolve.Proof{child}})
				break
			}
		}
	}
	if len(queries) == 0 {
		diags = append(diags, Diagnostic{Kind: ErrNoInstructions, Message: "query resolved but no proof contained the image literal"})
		return nil, diags
	}

	// Step 6: invoke the build planner.
	bp, err := plan.BuildDAGFromProofs(queries, logger)
	if err != nil {
		diags = append(diags, planErrorToDiagnostic(err))
		return nil, diags
	}
	if len(bp.Nodes) == 0 {
		diags = append(diags, Diagnostic{Kind: ErrNoInstructions, Message: "query resolved but produced no image instructions"})
		return nil, diags
	}
	return bp, diags
}

func resolveErrorToDiagnostic(e *resolve.ResolutionError) Diagnostic {
	switch e.Kind {
	case resolve.ErrMaxDepthExceeded:
		return Diagnostic{Kind: ErrMaxDepthExceeded, Message: e.Error()}
	case resolve.ErrUngroundedNegation:
		return Diagnostic{Kind: ErrUngroundedNegation, Message: e.Error()}
	case resolve.ErrMaxStepsExceeded:
		return Diagnostic{Kind: ErrStepLimitExceeded, Message: e.Error()}
	default:
		// BuiltinFailure closes a dead SLD branch silently per spec §7; it
		// is only worth surfacing here because every branch already failed
		// (sols is empty by the time callers see this), so report it as
		// context rather than a distinct fatal kind.
		return Diagnostic{Kind: ErrNoInstructions, Message: e.Error()}
	}
}

func planErrorToDiagnostic(err error) Diagnostic {
	if pe, ok := err.(*plan.PlanError); ok {
		kind := ErrPlannerRuleViolation
		if pe.Kind == plan.ErrUnknownOperator {
			kind = ErrUnknownOperator
		}
		return Diagnostic{Kind: kind, Message: pe.Error()}
	}
	return Diagnostic{Kind: ErrPlannerRuleViolation, Message: err.Error()}
}

// validateQueryExpression rejects operator applications anywhere in the
// query, per spec §4.6 step 1 / imagegen.rs's validate_query_expression.
func validateQueryExpression(e surface.Expression) []Diagnostic {
	switch v := e.(type) {
	case surface.ExprLiteral:
		return nil
	case surface.ExprOperatorApplication:
		return []Diagnostic{{Kind: ErrQueryUsesOperator, Message: "operators in queries are currently unsupported", Span: v.Operator.Position}}
	case surface.ExprAnd:
		var out []Diagnostic
		out = append(out, validateQueryExpression(v.Left)...)
		out = append(out, validateQueryExpression(v.Right)...)
		return out
	case surface.ExprOr:
		var out []Diagnostic
		out = append(out, validateQueryExpression(v.Left)...)
		out = append(out, validateQueryExpression(v.Right)...)
		return out
	default:
		return nil
	}
}

// collectLiterals flattens a query expression into every literal it
// mentions, positive or negative, matching Expression::literals() in the
// original implementation (consulted only for kind-counting, so polarity
// doesn't matter).
func collectLiterals(e surface.Expression) []surface.Literal {
	switch v := e.(type) {
	case surface.ExprLiteral:
		return []surface.Literal{v.Literal}
	case surface.ExprOperatorApplication:
		return collectLiterals(v.Inner)
	case surface.ExprAnd:
		return append(collectLiterals(v.Left), collectLiterals(v.Right)...)
	case surface.ExprOr:
		return append(collectLiterals(v.Left), collectLiterals(v.Right)...)
	default:
		return nil
	}
}

func countQueryKinds(query surface.Expression, kinds kindcheck.Kinds) (imageCount, layerCount int) {
	for _, lit := range collectLiterals(query) {
		sig := logic.Signature{Predicate: lit.Predicate, Arity: len(lit.Args)}
		switch kinds.Lookup(sig) {
		case kindcheck.Image:
			imageCount++
		case kindcheck.Layer:
			layerCount++
		}
	}
	return
}

func findImagePredicate(query surface.Expression, kinds kindcheck.Kinds) string {
	for _, lit := range collectLiterals(query) {
		sig := logic.Signature{Predicate: lit.Predicate, Arity: len(lit.Args)}
		if kinds.Lookup(sig) == kindcheck.Image {
			return lit.Predicate
		}
	}
	return ""
}
