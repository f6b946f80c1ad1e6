package surface

import (
	"encoding/json"
	"testing"
)

func TestModusClauseJSONRoundTrip(t *testing.T) {
	mc := ModusClause{
		Head: Literal{Positive: true, Predicate: "a"},
		Body: ExprOperatorApplication{
			Inner: ExprAnd{
				Positive: true,
				Left:     ExprLiteral{Literal: Literal{Positive: true, Predicate: "from", Args: []Term{ConstantTerm{Value: "alpine"}}}},
				Right:    ExprLiteral{Literal: Literal{Positive: true, Predicate: "run", Args: []Term{ConstantTerm{Value: "echo hi"}}}},
			},
			Operator: Operator{Predicate: "in_workdir", Args: []Term{ConstantTerm{Value: "/src"}}},
		},
	}

	data, err := json.Marshal(mc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out ModusClause
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	opApp, ok := out.Body.(ExprOperatorApplication)
	if !ok {
		t.Fatalf("expected ExprOperatorApplication, got %T", out.Body)
	}
	if opApp.Operator.Predicate != "in_workdir" {
		t.Fatalf("expected in_workdir operator, got %s", opApp.Operator.Predicate)
	}
	and, ok := opApp.Inner.(ExprAnd)
	if !ok {
		t.Fatalf("expected ExprAnd, got %T", opApp.Inner)
	}
	left, ok := and.Left.(ExprLiteral)
	if !ok || left.Literal.Predicate != "from" {
		t.Fatalf("expected from literal, got %+v", and.Left)
	}
}

func TestExpressionJSONRoundTripFormatString(t *testing.T) {
	expr := ExprLiteral{Literal: Literal{
		Positive:  true,
		Predicate: "from",
		Args: []Term{FormatStringTerm{Segments: []FormatStringSegment{
			{Literal: "alpine:"},
			{Interpolated: true, VariableName: "v"},
		}}},
	}}

	data, err := MarshalExpression(expr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalExpression(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	lit, ok := out.(ExprLiteral)
	if !ok {
		t.Fatalf("expected ExprLiteral, got %T", out)
	}
	fs, ok := lit.Literal.Args[0].(FormatStringTerm)
	if !ok || len(fs.Segments) != 2 || fs.Segments[1].VariableName != "v" {
		t.Fatalf("expected round-tripped format string term, got %+v", lit.Literal.Args[0])
	}
}
