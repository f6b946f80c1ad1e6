// Package unify computes most-general unifiers over IR literals and
// applies substitutions to terms, literals, and clauses.
//
// Grounded on spec §4.1. The original Rust draft
// (original_source/src/unification.rs) panics on compound (List) terms;
// this implementation instead unifies List terms structurally
// element-by-element, as the specification requires.
package unify

import "modus/internal/logic"

// Substitution maps variable terms to the terms they are bound to. Keys
// are always one of logic's variable term forms.
type Substitution map[logic.Term]logic.Term

// Apply walks t, replacing any bound variable with its binding, recursing
// into List elements. Constants are invariant.
func Apply(s Substitution, t logic.Term) logic.Term {
	switch v := t.(type) {
	case logic.List:
		elems := make([]logic.Term, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = Apply(s, e)
		}
		return logic.List{Elements: elems}
	default:
		if !logic.IsVariable(t) {
			return t
		}
		if bound, ok := s[t]; ok {
			return bound
		}
		return t
	}
}

// ApplyLiteral applies s to every argument of l.
func ApplyLiteral(s Substitution, l logic.Literal) logic.Literal {
	args := make([]logic.Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = Apply(s, a)
	}
	n := l
	n.Args = args
	return n
}

// ApplyClause applies s to every literal in c's head and body.
func ApplyClause(s Substitution, c logic.Clause) logic.Clause {
	out := logic.Clause{Head: ApplyLiteral(s, c.Head)}
	if len(c.Body) > 0 {
		out.Body = make([]logic.Literal, len(c.Body))
		for i, l := range c.Body {
			out.Body[i] = ApplyLiteral(s, l)
		}
	}
	return out
}

// Compose returns the substitution (l∘r) such that applying it equals
// applying l then r: (l∘r)(v) = r(l(v)) for v ∈ dom(l), and r(v) for
// v ∈ dom(r)\dom(l) (spec §3's composition law).
func Compose(l, r Substitution) Substitution {
	result := make(Substitution, len(l)+len(r))
	for k, v := range l {
		result[k] = Apply(r, v)
	}
	for k, v := range r {
		if _, already := result[k]; !already {
			result[k] = v
		}
	}
	return result
}

// Unify computes the most general unifier of two literals, or reports
// failure. Mismatched signatures fail immediately; otherwise arguments are
// walked left to right, each side substituted under the accumulator built
// so far, and bound/composed incrementally (spec §4.1).
func Unify(a, b logic.Literal) (Substitution, bool) {
	if a.Signature() != b.Signature() {
		return nil, false
	}
	acc := Substitution{}
	for i := range a.Args {
		at := Apply(acc, a.Args[i])
		bt := Apply(acc, b.Args[i])
		upd, ok := unifyTerms(at, bt)
		if !ok {
			return nil, false
		}
		if len(upd) > 0 {
			acc = Compose(acc, upd)
		}
	}
	return acc, true
}

// unifyTerms unifies two already-accumulator-substituted terms, returning
// the incremental binding needed (possibly empty if they are already
// equal) or failure.
func unifyTerms(a, b logic.Term) (Substitution, bool) {
	if a.Equal(b) {
		return nil, true
	}

	aList, aIsList := a.(logic.List)
	bList, bIsList := b.(logic.List)
	if aIsList || bIsList {
		if !aIsList || !bIsList {
			return nil, false
		}
		if len(aList.Elements) != len(bList.Elements) {
			return nil, false
		}
		acc := Substitution{}
		for i := range aList.Elements {
			et1 := Apply(acc, aList.Elements[i])
			et2 := Apply(acc, bList.Elements[i])
			upd, ok := unifyTerms(et1, et2)
			if !ok {
				return nil, false
			}
			if len(upd) > 0 {
				acc = Compose(acc, upd)
			}
		}
		return acc, true
	}

	if logic.IsVariable(a) {
		return Substitution{a: b}, true
	}
	if logic.IsVariable(b) {
		return Substitution{b: a}, true
	}
	return nil, false
}
