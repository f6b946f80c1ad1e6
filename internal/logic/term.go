// Package logic defines the intermediate representation of the compiler:
// terms, literals, clauses, signatures, and substitutions. Everything
// downstream (unification, lowering, resolution, planning) operates on
// these types.
package logic

import (
	"fmt"
	"strings"
)

// Term is a tagged variant over the IR term forms. Implementations are
// Constant, UserVariable, AuxiliaryVariable, AnonymousVariable,
// RenamedVariable, and List.
type Term interface {
	isTerm()
	String() string
	// Equal reports structural equality.
	Equal(other Term) bool
}

// Constant is a ground string literal.
type Constant struct {
	Value string
}

func (Constant) isTerm()            {}
func (c Constant) String() string   { return fmt.Sprintf("%q", c.Value) }
func (c Constant) Equal(o Term) bool {
	oc, ok := o.(Constant)
	return ok && oc.Value == c.Value
}

// UserVariable is a source-named variable.
type UserVariable struct {
	Name string
}

func (UserVariable) isTerm()          {}
func (v UserVariable) String() string { return v.Name }
func (v UserVariable) Equal(o Term) bool {
	ov, ok := o.(UserVariable)
	return ok && ov.Name == v.Name
}

// AuxiliaryVariable is compiler-generated and ground only after resolution
// (e.g. the chained string_concat accumulators produced by format-string
// lowering).
type AuxiliaryVariable struct {
	ID uint64
}

func (AuxiliaryVariable) isTerm()          {}
func (v AuxiliaryVariable) String() string { return fmt.Sprintf("_aux%d", v.ID) }
func (v AuxiliaryVariable) Equal(o Term) bool {
	ov, ok := o.(AuxiliaryVariable)
	return ok && ov.ID == v.ID
}

// AnonymousVariable is an unnamed placeholder, unique per occurrence.
type AnonymousVariable struct {
	ID uint64
}

func (AnonymousVariable) isTerm()          {}
func (v AnonymousVariable) String() string { return fmt.Sprintf("_anon%d", v.ID) }
func (v AnonymousVariable) Equal(o Term) bool {
	ov, ok := o.(AnonymousVariable)
	return ok && ov.ID == v.ID
}

// RenamedVariable is produced by the renamer; it carries the term it was
// renamed from so the original can be recovered by walking Inner.
type RenamedVariable struct {
	ID    uint64
	Inner Term
}

func (RenamedVariable) isTerm() {}
func (v RenamedVariable) String() string {
	return fmt.Sprintf("_ren%d(%s)", v.ID, v.Inner.String())
}
func (v RenamedVariable) Equal(o Term) bool {
	ov, ok := o.(RenamedVariable)
	return ok && ov.ID == v.ID && ov.Inner.Equal(v.Inner)
}

// Original walks a chain of RenamedVariable wrappers down to the
// non-renamed term underneath.
func Original(t Term) Term {
	for {
		rv, ok := t.(RenamedVariable)
		if !ok {
			return t
		}
		t = rv.Inner
	}
}

// List is an ordered, compound term sequence.
type List struct {
	Elements []Term
}

func (List) isTerm() {}
func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l List) Equal(o Term) bool {
	ol, ok := o.(List)
	if !ok || len(ol.Elements) != len(l.Elements) {
		return false
	}
	for i := range l.Elements {
		if !l.Elements[i].Equal(ol.Elements[i]) {
			return false
		}
	}
	return true
}

// IsVariable reports whether t is any of the variable term forms.
func IsVariable(t Term) bool {
	switch t.(type) {
	case UserVariable, AuxiliaryVariable, AnonymousVariable, RenamedVariable:
		return true
	default:
		return false
	}
}

// IsGround reports whether t contains no variable forms. Constant is
// always ground; List is ground iff every element is ground.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case Constant:
		return true
	case List:
		for _, e := range v.Elements {
			if !IsGround(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
