// Package surface defines the types the (external, out-of-scope) parser
// collaborator hands to the rule-lowering stage: clauses, boolean
// expressions over literals, and surface terms including format strings.
//
// Grounded on original_source/src/modusfile.rs's ModusClause/Expression/
// ModusTerm definitions, with negation modeled as a boolean flag on the
// And/Or variants (matching the original: there is no separate Not node —
// `!literal` is `Literal{Positive:false}` and `!(e1, e2)`/`!(e1; e2)` are
// And/Or with Positive=false, pushed down to their sub-expressions during
// lowering).
package surface

import "modus/internal/logic"

// Term is the surface-level term form, prior to IR lowering.
type Term interface {
	isSurfaceTerm()
}

// ConstantTerm is a literal string constant.
type ConstantTerm struct {
	Value string
}

func (ConstantTerm) isSurfaceTerm() {}

// VariableTerm is a source-named variable reference.
type VariableTerm struct {
	Name string
}

func (VariableTerm) isSurfaceTerm() {}

// FormatStringSegment is one piece of a format string: either a literal
// text segment or a `${name}` interpolation referencing a variable.
type FormatStringSegment struct {
	Literal      string
	Interpolated bool
	VariableName string
}

// FormatStringTerm is a surface format string (`f"…${var}…"`), lowered by
// internal/lower into a chain of string_concat auxiliary literals.
type FormatStringTerm struct {
	Segments []FormatStringSegment
}

func (FormatStringTerm) isSurfaceTerm() {}

// ListTerm is a surface compound term sequence (e.g. the argument to
// set_cmd/set_entrypoint when given as a literal list).
type ListTerm struct {
	Elements []Term
}

func (ListTerm) isSurfaceTerm() {}

// Literal is a surface predicate application. Position is threaded
// through from the parser for diagnostics.
type Literal struct {
	Positive  bool
	Position  *logic.SourceSpan
	Predicate string
	Args      []Term
}

// Operator is a literal naming the operator predicate and its arguments
// in an OperatorApplication (spec §4.3); `Operator = Literal` in the
// original, since an operator application carries a predicate and args
// exactly like any other literal.
type Operator = Literal

// Expression is the surface boolean-expression AST consumed by rule
// lowering: a single literal, an operator application wrapping an inner
// expression, or a conjunction/disjunction (each optionally negated as a
// whole, per De Morgan's law applied at lowering time).
type Expression interface {
	isExpression()
}

// ExprLiteral wraps a single literal occurrence.
type ExprLiteral struct {
	Literal Literal
}

func (ExprLiteral) isExpression() {}

// ExprOperatorApplication applies Operator to the clauses produced by
// Inner, wrapping each resulting clause body in a fresh begin/end marker
// pair (spec §4.3).
type ExprOperatorApplication struct {
	Inner    Expression
	Operator Operator
}

func (ExprOperatorApplication) isExpression() {}

// ExprAnd is a conjunction of two sub-expressions. Positive=false
// represents `!(e1, e2)`, which De Morgan-rewrites to `!e1; !e2` during
// lowering.
type ExprAnd struct {
	Left, Right Expression
	Positive    bool
}

func (ExprAnd) isExpression() {}

// ExprOr is a disjunction of two sub-expressions. Positive=false
// represents `!(e1; e2)`, which De Morgan-rewrites to `!e1, !e2` during
// lowering.
type ExprOr struct {
	Left, Right Expression
	Positive    bool
}

func (ExprOr) isExpression() {}

// ModusClause is a surface rule: a head literal and an optional body
// expression. A nil Body represents a fact.
type ModusClause struct {
	Head Literal
	Body Expression
}

// Modusfile is an ordered sequence of surface clauses, mirroring
// original_source/src/modusfile.rs's `Modusfile(Vec<ModusClause>)`.
type Modusfile struct {
	Clauses []ModusClause `json:"clauses"`
}
