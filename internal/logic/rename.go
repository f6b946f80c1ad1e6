package logic

// RenameClause produces a fresh variant of c: every distinct non-anonymous
// variable occurring in the head or body is mapped, consistently within
// this call, to a fresh RenamedVariable wrapping the original; every
// occurrence of an AnonymousVariable receives its own fresh id (spec
// §4.4 step 1 — this is what lets a recursive rule be reused at every
// depth of the SLD tree without variable capture).
func RenameClause(c Clause) Clause {
	mapping := map[Term]Term{}
	rename := func(t Term) Term {
		switch t.(type) {
		case AnonymousVariable:
			return Rename(t)
		}
		if !IsVariable(t) {
			return t
		}
		if existing, ok := lookupByEquality(mapping, t); ok {
			return existing
		}
		fresh := Rename(t)
		mapping[t] = fresh
		return fresh
	}
	var renameTerm func(Term) Term
	renameTerm = func(t Term) Term {
		switch v := t.(type) {
		case List:
			elems := make([]Term, len(v.Elements))
			for i, e := range v.Elements {
				elems[i] = renameTerm(e)
			}
			return List{Elements: elems}
		default:
			if IsVariable(t) {
				return rename(t)
			}
			return t
		}
	}
	renameLiteral := func(l Literal) Literal {
		args := make([]Term, len(l.Args))
		for i, a := range l.Args {
			args[i] = renameTerm(a)
		}
		n := l
		n.Args = args
		return n
	}

	out := Clause{Head: renameLiteral(c.Head)}
	if len(c.Body) > 0 {
		out.Body = make([]Literal, len(c.Body))
		for i, l := range c.Body {
			out.Body[i] = renameLiteral(l)
		}
	}
	return out
}

// lookupByEquality scans mapping for a key structurally equal to t. Maps
// of interface keys in Go compare by dynamic type+value, which is exactly
// structural equality for the comparable term variants (Constant,
// UserVariable, AuxiliaryVariable, AnonymousVariable are all simple
// structs of comparable fields), so a plain map lookup suffices; this
// helper exists to keep call sites expressive.
func lookupByEquality(mapping map[Term]Term, t Term) (Term, bool) {
	v, ok := mapping[t]
	return v, ok
}
