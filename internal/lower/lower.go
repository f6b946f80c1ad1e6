package lower

import (
	"strconv"

	"modus/internal/logic"
	"modus/internal/surface"
)

// negateCurrent flips the polarity of the outermost node of expr, without
// recursing into its sub-expressions. Lower then applies De Morgan's law
// by rewriting the negated And/Or into an Or/And of negated
// sub-expressions, pushing negation one level down at a time — mirroring
// original_source/src/translate.rs's handling of
// Expression::And(_, false, ...) / Expression::Or(_, false, ...).
func negateCurrent(expr surface.Expression) surface.Expression {
	switch v := expr.(type) {
	case surface.ExprLiteral:
		n := v
		n.Literal = v.Literal
		n.Literal.Positive = !v.Literal.Positive
		return n
	case surface.ExprAnd:
		n := v
		n.Positive = !v.Positive
		return n
	case surface.ExprOr:
		n := v
		n.Positive = !v.Positive
		return n
	default:
		// OperatorApplication has no polarity of its own; a well-formed
		// surface program never negates one directly.
		return expr
	}
}

// literalFromSurface converts a clause head. Heads are assumed to carry
// only constants/variables (never format strings), matching
// original_source/src/translate.rs's bare `.into()` head conversion,
// which never threads auxiliary string_concat literals back into a body
// for the head position.
func literalFromSurface(head surface.Literal) logic.Literal {
	args, _ := translateArgs(head.Args)
	return logic.Literal{
		Positive:  head.Positive,
		Position:  head.Position,
		Predicate: head.Predicate,
		Args:      args,
	}
}

// Clause lowers a single surface ModusClause into one or more flat IR
// clauses (spec §4.3). Grounded on
// `impl From<&ModusClause> for Vec<logic::Clause>` in
// original_source/src/translate.rs.
func Clause(mc surface.ModusClause) []logic.Clause {
	head := literalFromSurfaceHeadOnly(mc.Head)

	if mc.Body == nil {
		return []logic.Clause{{Head: head, Body: nil}}
	}

	switch body := mc.Body.(type) {
	case surface.ExprLiteral:
		args, auxLiterals := translateArgs(body.Literal.Args)
		bodyLit := logic.Literal{
			Positive:  body.Literal.Positive,
			Position:  body.Literal.Position,
			Predicate: body.Literal.Predicate,
			Args:      args,
		}
		literals := append(append([]logic.Literal{}, auxLiterals...), bodyLit)
		return []logic.Clause{{Head: head, Body: literals}}

	case surface.ExprOperatorApplication:
		inner := Clause(surface.ModusClause{Head: mc.Head, Body: body.Inner})
		out := make([]logic.Clause, 0, len(inner))
		for _, c := range inner {
			pairID := logic.NextPairID()
			pairConst := logic.Constant{Value: strconv.FormatUint(pairID, 10)}

			opArgs, opAux := translateArgs(body.Operator.Args)
			beginArgs := append([]logic.Term{pairConst}, opArgs...)
			endArgs := append([]logic.Term{pairConst}, opArgs...)

			newBody := make([]logic.Literal, 0, len(opAux)+len(c.Body)+2)
			newBody = append(newBody, opAux...)
			newBody = append(newBody, logic.Literal{
				Positive:  true,
				Position:  body.Operator.Position,
				Predicate: logic.OperatorBeginName(body.Operator.Predicate),
				Args:      beginArgs,
			})
			newBody = append(newBody, c.Body...)
			newBody = append(newBody, logic.Literal{
				Positive:  true,
				Position:  body.Operator.Position,
				Predicate: logic.OperatorEndName(body.Operator.Predicate),
				Args:      endArgs,
			})
			out = append(out, logic.Clause{Head: c.Head, Body: newBody})
		}
		return out

	case surface.ExprAnd:
		if !body.Positive {
			return Clause(surface.ModusClause{
				Head: mc.Head,
				Body: surface.ExprOr{
					Left:     negateCurrent(body.Left),
					Right:    negateCurrent(body.Right),
					Positive: true,
				},
			})
		}
		c1 := Clause(surface.ModusClause{Head: mc.Head, Body: body.Left})
		c2 := Clause(surface.ModusClause{Head: mc.Head, Body: body.Right})
		out := make([]logic.Clause, 0, len(c1)*len(c2))
		for _, a := range c1 {
			for _, b := range c2 {
				merged := make([]logic.Literal, 0, len(a.Body)+len(b.Body))
				merged = append(merged, a.Body...)
				merged = append(merged, b.Body...)
				out = append(out, logic.Clause{Head: a.Head, Body: merged})
			}
		}
		return out

	case surface.ExprOr:
		if !body.Positive {
			return Clause(surface.ModusClause{
				Head: mc.Head,
				Body: surface.ExprAnd{
					Left:     negateCurrent(body.Left),
					Right:    negateCurrent(body.Right),
					Positive: true,
				},
			})
		}
		c1 := Clause(surface.ModusClause{Head: mc.Head, Body: body.Left})
		c2 := Clause(surface.ModusClause{Head: mc.Head, Body: body.Right})
		out := make([]logic.Clause, 0, len(c1)+len(c2))
		out = append(out, c1...)
		out = append(out, c2...)
		return out

	default:
		panic("lower: unknown surface expression type")
	}
}

func literalFromSurfaceHeadOnly(head surface.Literal) logic.Literal {
	return literalFromSurface(head)
}

// Modusfile lowers every clause of mf in order, concatenating the
// resulting IR clauses. Clause ordering determines trial order during SLD
// resolution (spec §5), so the output preserves mf's clause order.
func Modusfile(mf surface.Modusfile) []logic.Clause {
	var out []logic.Clause
	for _, mc := range mf.Clauses {
		out = append(out, Clause(mc)...)
	}
	return out
}
