package resolve

import (
	"testing"

	"modus/internal/logic"
)

func c(value string) logic.Term { return logic.Constant{Value: value} }
func v(name string) logic.Term  { return logic.UserVariable{Name: name} }

func lit(positive bool, pred string, args ...logic.Term) logic.Literal {
	return logic.Literal{Positive: positive, Predicate: pred, Args: args}
}

func TestResolveFactDirect(t *testing.T) {
	clauses := []logic.Clause{
		{Head: lit(true, "animal", c("cat"))},
	}
	goals := []logic.Literal{lit(true, "animal", v("X"))}

	sols, errs := Resolve(clauses, goals, Options{MaxDepth: 10})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sols) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(sols))
	}
	bound := sols[0].Substitution[v("X")]
	if bound == nil || !bound.Equal(c("cat")) {
		t.Fatalf("expected X bound to cat, got %v", bound)
	}
	if len(sols[0].Proofs) != 1 || sols[0].Proofs[0].ClauseID.Kind != KindRule {
		t.Fatalf("expected single Rule proof node, got %+v", sols[0].Proofs)
	}
}

func TestResolveChainedRules(t *testing.T) {
	// mammal(X) :- animal(X), warm_blooded(X).
	clauses := []logic.Clause{
		{Head: lit(true, "animal", c("cat"))},
		{Head: lit(true, "warm_blooded", c("cat"))},
		{
			Head: lit(true, "mammal", v("X")),
			Body: []logic.Literal{
				lit(true, "animal", v("X")),
				lit(true, "warm_blooded", v("X")),
			},
		},
	}
	goals := []logic.Literal{lit(true, "mammal", v("Y"))}

	sols, errs := Resolve(clauses, goals, Options{MaxDepth: 10})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sols) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(sols))
	}
	bound := sols[0].Substitution[v("Y")]
	if bound == nil || !bound.Equal(c("cat")) {
		t.Fatalf("expected Y bound to cat, got %v", bound)
	}
	proof := sols[0].Proofs[0]
	if proof.ClauseID.Kind != KindRule || len(proof.Children) != 2 {
		t.Fatalf("expected rule node with 2 children, got %+v", proof)
	}
}

func TestResolveBuiltinStringConcat(t *testing.T) {
	goals := []logic.Literal{lit(true, "string_concat", c("foo"), c("bar"), v("Z"))}
	sols, errs := Resolve(nil, goals, Options{MaxDepth: 10})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sols) != 1 {
		t.Fatalf("expected 1 solution, got %d", len(sols))
	}
	bound := sols[0].Substitution[v("Z")]
	if bound == nil || !bound.Equal(c("foobar")) {
		t.Fatalf("expected Z bound to foobar, got %v", bound)
	}
	if sols[0].Proofs[0].ClauseID.Kind != KindBuiltin {
		t.Fatalf("expected Builtin proof node")
	}
}

func TestResolveNegationAsFailureSucceeds(t *testing.T) {
	clauses := []logic.Clause{
		{Head: lit(true, "animal", c("cat"))},
	}
	// Succeeds because dog is not provably an animal.
	goals := []logic.Literal{lit(false, "animal", c("dog"))}
	sols, errs := Resolve(clauses, goals, Options{MaxDepth: 10})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sols) != 1 {
		t.Fatalf("expected negation-as-failure success, got %d solutions", len(sols))
	}
	if sols[0].Proofs[0].ClauseID.Kind != KindNegationCheck {
		t.Fatalf("expected NegationCheck node")
	}
}

func TestResolveNegationAsFailureFails(t *testing.T) {
	clauses := []logic.Clause{
		{Head: lit(true, "animal", c("cat"))},
	}
	goals := []logic.Literal{lit(false, "animal", c("cat"))}
	sols, _ := Resolve(clauses, goals, Options{MaxDepth: 10})
	if len(sols) != 0 {
		t.Fatalf("expected no solutions, got %d", len(sols))
	}
}

func TestResolveUngroundedNegationErrors(t *testing.T) {
	goals := []logic.Literal{lit(false, "animal", v("X"))}
	sols, errs := Resolve(nil, goals, Options{MaxDepth: 10})
	if len(sols) != 0 {
		t.Fatalf("expected no solutions, got %d", len(sols))
	}
	found := false
	for _, e := range errs {
		if e.Kind == ErrUngroundedNegation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UngroundedNegation error, got %v", errs)
	}
}

func TestResolveMaxDepthExceeded(t *testing.T) {
	// loop(X) :- loop(X). with no base case: every derivation eventually
	// exhausts the depth budget.
	clauses := []logic.Clause{
		{Head: lit(true, "loop", v("X")), Body: []logic.Literal{lit(true, "loop", v("X"))}},
	}
	goals := []logic.Literal{lit(true, "loop", c("a"))}
	sols, errs := Resolve(clauses, goals, Options{MaxDepth: 5})
	if len(sols) != 0 {
		t.Fatalf("expected no solutions for an infinite rule, got %d", len(sols))
	}
	found := false
	for _, e := range errs {
		if e.Kind == ErrMaxDepthExceeded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MaxDepthExceeded error, got %v", errs)
	}
}

func TestResolveMultipleClausesYieldMultipleSolutions(t *testing.T) {
	clauses := []logic.Clause{
		{Head: lit(true, "animal", c("cat"))},
		{Head: lit(true, "animal", c("dog"))},
	}
	goals := []logic.Literal{lit(true, "animal", v("X"))}
	sols, errs := Resolve(clauses, goals, Options{MaxDepth: 10})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(sols) != 2 {
		t.Fatalf("expected 2 solutions, got %d", len(sols))
	}
}

func TestResolveGroundnessMismatchDeadBranch(t *testing.T) {
	// from/1 is an intrinsic with no rule fallback: calling it with an
	// unbound argument must fail the branch rather than search for clauses.
	goals := []logic.Literal{lit(true, "from", v("X"))}
	sols, errs := Resolve(nil, goals, Options{MaxDepth: 10})
	if len(sols) != 0 {
		t.Fatalf("expected no solutions, got %d", len(sols))
	}
	if len(errs) == 0 {
		t.Fatalf("expected a BuiltinFailure diagnostic")
	}
}
