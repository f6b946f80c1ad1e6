package orchestrate

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	"modus/internal/logic"
	"modus/internal/plan"
	"modus/internal/surface"
)

// TestMain guards against leaking the result goroutine PlanFromProgram spawns
// for its ctx.Done() race.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func lit(positive bool, pred string, args ...surface.Term) surface.Literal {
	return surface.Literal{Positive: positive, Predicate: pred, Args: args}
}

func cterm(v string) surface.Term { return surface.ConstantTerm{Value: v} }

func TestPlanFromProgramSimplestImage(t *testing.T) {
	logic.ResetPairIDCounter()
	logic.ResetVariableCounter()

	mf := surface.Modusfile{Clauses: []surface.ModusClause{
		{
			Head: lit(true, "a"),
			Body: surface.ExprAnd{
				Positive: true,
				Left:     surface.ExprLiteral{Literal: lit(true, "from", cterm("ubuntu"))},
				Right:    surface.ExprLiteral{Literal: lit(true, "run", cterm("rm -rf /"))},
			},
		},
	}}
	query := surface.ExprLiteral{Literal: lit(true, "a")}

	bp, diags := PlanFromProgram(context.Background(), mf, query, nil, nil)
	if diags.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", diags)
	}
	if bp == nil {
		t.Fatalf("expected a build plan")
	}
	if len(bp.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(bp.Outputs))
	}

	var sawFrom, sawRun, sawLabel bool
	for _, n := range bp.Nodes {
		switch n.Kind {
		case plan.KindFrom:
			sawFrom = true
			if n.ImageRef != "ubuntu" {
				t.Errorf("expected from ubuntu, got %s", n.ImageRef)
			}
		case plan.KindRun:
			sawRun = true
			if n.Command != "rm -rf /" {
				t.Errorf("expected run 'rm -rf /', got %s", n.Command)
			}
		case plan.KindSetLabel:
			sawLabel = true
			if n.Value != "a" {
				t.Errorf("expected label value 'a', got %s", n.Value)
			}
		}
	}
	if !sawFrom || !sawRun || !sawLabel {
		t.Fatalf("expected from+run+label nodes, got %+v", bp.Nodes)
	}
}

func TestPlanFromProgramRejectsOperatorInQuery(t *testing.T) {
	logic.ResetPairIDCounter()
	logic.ResetVariableCounter()

	mf := surface.Modusfile{Clauses: []surface.ModusClause{
		{Head: lit(true, "a"), Body: surface.ExprLiteral{Literal: lit(true, "from", cterm("alpine"))}},
	}}
	query := surface.ExprOperatorApplication{
		Inner:    surface.ExprLiteral{Literal: lit(true, "a")},
		Operator: surface.Operator{Predicate: "merge"},
	}

	_, diags := PlanFromProgram(context.Background(), mf, query, nil, nil)
	if !diags.HasFatal() {
		t.Fatalf("expected a fatal diagnostic for an operator in the query")
	}
	found := false
	for _, d := range diags {
		if d.Kind == ErrQueryUsesOperator {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrQueryUsesOperator, got %+v", diags)
	}
}

func TestPlanFromProgramHonorsCancelledContext(t *testing.T) {
	logic.ResetPairIDCounter()
	logic.ResetVariableCounter()

	mf := surface.Modusfile{Clauses: []surface.ModusClause{
		{Head: lit(true, "a"), Body: surface.ExprLiteral{Literal: lit(true, "from", cterm("alpine"))}},
	}}
	query := surface.ExprLiteral{Literal: lit(true, "a")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp, diags := PlanFromProgram(ctx, mf, query, nil, nil)
	if bp != nil {
		t.Fatalf("expected no plan for a cancelled context, got %+v", bp)
	}
	if len(diags) != 1 || diags[0].Kind != ErrTimeout {
		t.Fatalf("expected a single ErrTimeout diagnostic, got %+v", diags)
	}
}

func TestPlanFromProgramRejectsWrongImageCount(t *testing.T) {
	logic.ResetPairIDCounter()
	logic.ResetVariableCounter()

	mf := surface.Modusfile{Clauses: []surface.ModusClause{
		{Head: lit(true, "a"), Body: surface.ExprLiteral{Literal: lit(true, "from", cterm("alpine"))}},
		{Head: lit(true, "b"), Body: surface.ExprLiteral{Literal: lit(true, "from", cterm("ubuntu"))}},
	}}
	query := surface.ExprAnd{
		Positive: true,
		Left:     surface.ExprLiteral{Literal: lit(true, "a")},
		Right:    surface.ExprLiteral{Literal: lit(true, "b")},
	}

	_, diags := PlanFromProgram(context.Background(), mf, query, nil, nil)
	if !diags.HasFatal() {
		t.Fatalf("expected a fatal diagnostic for two image predicates in the query")
	}
	found := false
	for _, d := range diags {
		if d.Kind == ErrQueryImageCountWrong {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrQueryImageCountWrong, got %+v", diags)
	}
}
