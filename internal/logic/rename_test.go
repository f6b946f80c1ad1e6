package logic

import "testing"

func TestRenameClausePreservesStructure(t *testing.T) {
	ResetVariableCounter()
	c := Clause{
		Head: Literal{Predicate: "p", Args: []Term{UserVariable{Name: "X"}, UserVariable{Name: "Y"}}},
		Body: []Literal{
			{Predicate: "q", Args: []Term{UserVariable{Name: "X"}}},
			{Predicate: "r", Args: []Term{UserVariable{Name: "Y"}, Constant{Value: "c"}}},
		},
	}
	renamed := RenameClause(c)

	headX := renamed.Head.Args[0]
	bodyX := renamed.Body[0].Args[0]
	if !headX.Equal(bodyX) {
		t.Errorf("same source variable X renamed inconsistently: %v vs %v", headX, bodyX)
	}

	headY := renamed.Head.Args[1]
	bodyY := renamed.Body[1].Args[0]
	if !headY.Equal(bodyY) {
		t.Errorf("same source variable Y renamed inconsistently: %v vs %v", headY, bodyY)
	}

	if headX.Equal(headY) {
		t.Errorf("distinct source variables X and Y renamed to the same variable")
	}

	if !renamed.Body[1].Args[1].Equal(Constant{Value: "c"}) {
		t.Errorf("constant argument should be untouched by renaming")
	}
}

func TestRenameClauseAnonymousGetsFreshEachOccurrence(t *testing.T) {
	ResetVariableCounter()
	anon := AnonymousVariable{ID: 99}
	c := Clause{
		Head: Literal{Predicate: "p", Args: []Term{anon}},
		Body: []Literal{{Predicate: "q", Args: []Term{anon}}},
	}
	renamed := RenameClause(c)
	if renamed.Head.Args[0].Equal(renamed.Body[0].Args[0]) {
		t.Errorf("two anonymous-variable occurrences should rename independently")
	}
}
