// Package lower converts the surface AST (internal/surface) into the flat
// IR clause list (internal/logic) the resolver consumes: And/Or/negation
// handling, operator-application marker wrapping, and format-string
// expansion.
//
// Grounded on original_source/src/translate.rs's convert_format_string and
// `impl From<&ModusClause> for Vec<logic::Clause>`.
package lower

import (
	"modus/internal/logic"
	"modus/internal/surface"
)

// convertFormatString lowers the segments of a format string into a chain
// of string_concat literals and returns the final accumulator variable
// that should replace the format string term (spec §4.3).
func convertFormatString(pos *logic.SourceSpan, segments []surface.FormatStringSegment) ([]logic.Literal, logic.Term) {
	prev := logic.Term(logic.NewAuxiliaryVariable())
	literals := []logic.Literal{
		{
			Positive:  true,
			Position:  pos,
			Predicate: "string_concat",
			Args:      []logic.Term{logic.Constant{Value: ""}, logic.Constant{Value: ""}, prev},
		},
	}
	for _, seg := range segments {
		var rhs logic.Term
		if seg.Interpolated {
			rhs = logic.UserVariable{Name: seg.VariableName}
		} else {
			processed := processEscapes(seg.Literal)
			if processed == "" {
				continue
			}
			rhs = logic.Constant{Value: processed}
		}
		next := logic.NewAuxiliaryVariable()
		literals = append(literals, logic.Literal{
			Positive:  true,
			Position:  pos,
			Predicate: "string_concat",
			Args:      []logic.Term{prev, rhs, next},
		})
		prev = next
	}
	return literals, prev
}

// translateTerm converts a surface term into an IR term, emitting any
// auxiliary literals needed (format strings only).
func translateTerm(t surface.Term) (logic.Term, []logic.Literal) {
	switch v := t.(type) {
	case surface.ConstantTerm:
		return logic.Constant{Value: processEscapes(v.Value)}, nil
	case surface.VariableTerm:
		return logic.UserVariable{Name: v.Name}, nil
	case surface.FormatStringTerm:
		lits, term := convertFormatString(nil, v.Segments)
		return term, lits
	case surface.ListTerm:
		elems := make([]logic.Term, len(v.Elements))
		var lits []logic.Literal
		for i, e := range v.Elements {
			et, el := translateTerm(e)
			elems[i] = et
			lits = append(lits, el...)
		}
		return logic.List{Elements: elems}, lits
	default:
		panic("lower: unknown surface term type")
	}
}

// translateArgs converts a slice of surface terms, accumulating auxiliary
// literals emitted by any of them in source order.
func translateArgs(args []surface.Term) ([]logic.Term, []logic.Literal) {
	out := make([]logic.Term, len(args))
	var lits []logic.Literal
	for i, a := range args {
		t, l := translateTerm(a)
		out[i] = t
		lits = append(lits, l...)
	}
	return out, lits
}
