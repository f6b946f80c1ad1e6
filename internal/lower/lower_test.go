package lower

import (
	"testing"

	"modus/internal/logic"
	"modus/internal/surface"
)

func lit(positive bool, pred string, args ...surface.Term) surface.Literal {
	return surface.Literal{Positive: positive, Predicate: pred, Args: args}
}

func TestClauseSimpleLiteralBody(t *testing.T) {
	mc := surface.ModusClause{
		Head: lit(true, "a"),
		Body: surface.ExprLiteral{Literal: lit(true, "from", surface.ConstantTerm{Value: "ubuntu"})},
	}
	clauses := Clause(mc)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	c := clauses[0]
	if len(c.Body) != 1 || c.Body[0].Predicate != "from" {
		t.Fatalf("unexpected body: %+v", c.Body)
	}
}

func TestClauseCartesianProductForAnd(t *testing.T) {
	mc := surface.ModusClause{
		Head: lit(true, "b"),
		Body: surface.ExprAnd{
			Positive: true,
			Left:     surface.ExprLiteral{Literal: lit(true, "p")},
			Right:    surface.ExprLiteral{Literal: lit(true, "q")},
		},
	}
	clauses := Clause(mc)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause (1x1 cartesian), got %d", len(clauses))
	}
	if len(clauses[0].Body) != 2 {
		t.Fatalf("expected body of both conjuncts, got %+v", clauses[0].Body)
	}
}

func TestClauseUnionForOr(t *testing.T) {
	mc := surface.ModusClause{
		Head: lit(true, "b"),
		Body: surface.ExprOr{
			Positive: true,
			Left:     surface.ExprLiteral{Literal: lit(true, "p")},
			Right:    surface.ExprLiteral{Literal: lit(true, "q")},
		},
	}
	clauses := Clause(mc)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses (union), got %d", len(clauses))
	}
}

func TestClauseNegatedAndDeMorgan(t *testing.T) {
	// foo :- !(a, b, c). -> foo:-!a.  foo:-!b.  foo:-!c.
	mc := surface.ModusClause{
		Head: lit(true, "foo"),
		Body: surface.ExprAnd{
			Positive: false,
			Left:     surface.ExprLiteral{Literal: lit(true, "a")},
			Right: surface.ExprAnd{
				Positive: true,
				Left:     surface.ExprLiteral{Literal: lit(true, "b")},
				Right:    surface.ExprLiteral{Literal: lit(true, "c")},
			},
		},
	}
	clauses := Clause(mc)
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d: %+v", len(clauses), clauses)
	}
	for _, c := range clauses {
		if len(c.Body) != 1 || c.Body[0].Positive {
			t.Errorf("expected single negated literal body, got %+v", c.Body)
		}
	}
}

func TestClauseNegatedOrDeMorgan(t *testing.T) {
	// foo :- !(a; b; c). -> foo :- !a, !b, !c.
	mc := surface.ModusClause{
		Head: lit(true, "foo"),
		Body: surface.ExprOr{
			Positive: false,
			Left:     surface.ExprLiteral{Literal: lit(true, "a")},
			Right: surface.ExprOr{
				Positive: true,
				Left:     surface.ExprLiteral{Literal: lit(true, "b")},
				Right:    surface.ExprLiteral{Literal: lit(true, "c")},
			},
		},
	}
	clauses := Clause(mc)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	if len(clauses[0].Body) != 3 {
		t.Fatalf("expected 3-literal conjunction, got %+v", clauses[0].Body)
	}
	for _, l := range clauses[0].Body {
		if l.Positive {
			t.Errorf("expected all literals negated, got %+v", l)
		}
	}
}

func TestClauseOperatorApplicationWrapsMarkers(t *testing.T) {
	logic.ResetPairIDCounter()
	mc := surface.ModusClause{
		Head: lit(true, "a"),
		Body: surface.ExprOperatorApplication{
			Inner:    surface.ExprLiteral{Literal: lit(true, "run", surface.ConstantTerm{Value: "ls"})},
			Operator: surface.Operator{Predicate: "in_workdir", Args: []surface.Term{surface.ConstantTerm{Value: "/tmp"}}},
		},
	}
	clauses := Clause(mc)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	body := clauses[0].Body
	if len(body) != 3 {
		t.Fatalf("expected begin, inner, end; got %+v", body)
	}
	if body[0].Predicate != logic.OperatorBeginName("in_workdir") {
		t.Errorf("expected begin marker first, got %v", body[0])
	}
	if body[2].Predicate != logic.OperatorEndName("in_workdir") {
		t.Errorf("expected end marker last, got %v", body[2])
	}
	if !body[0].Args[0].Equal(body[2].Args[0]) {
		t.Errorf("begin/end pair id mismatch: %v vs %v", body[0].Args[0], body[2].Args[0])
	}
}

func TestFormatStringLoweringChain(t *testing.T) {
	logic.ResetVariableCounter()
	mc := surface.ModusClause{
		Head: lit(true, "a", surface.VariableTerm{Name: "v"}),
		Body: surface.ExprLiteral{Literal: lit(true, "from", surface.FormatStringTerm{
			Segments: []surface.FormatStringSegment{
				{Literal: "alpine:"},
				{Interpolated: true, VariableName: "v"},
			},
		})},
	}
	clauses := Clause(mc)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause")
	}
	body := clauses[0].Body
	// starter + "alpine:" + ${v} + from(...) = 4 literals
	if len(body) != 4 {
		t.Fatalf("expected 4 body literals, got %d: %+v", len(body), body)
	}
	last := body[len(body)-1]
	if last.Predicate != "from" {
		t.Fatalf("expected trailing from literal, got %v", last)
	}
}
