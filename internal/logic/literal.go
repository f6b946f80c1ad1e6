package logic

import (
	"fmt"
	"strings"
)

// SourceSpan locates a literal in the surface program, when known. The
// parser collaborator is responsible for populating it; the core only
// threads it through for diagnostics.
type SourceSpan struct {
	File        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (s *SourceSpan) String() string {
	if s == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartColumn)
}

// Signature identifies a predicate by name and arity.
type Signature struct {
	Predicate string
	Arity     int
}

func (s Signature) String() string { return fmt.Sprintf("%s/%d", s.Predicate, s.Arity) }

// operatorPrefix, operatorBeginSuffix and operatorEndSuffix name the
// marker-predicate convention used by operator-application lowering
// (spec §3, §4.3).
const (
	operatorPrefix     = "_operator_"
	operatorBeginSuffix = "_begin"
	operatorEndSuffix   = "_end"
)

// OperatorBeginName returns the begin marker predicate name for a surface
// operator predicate, e.g. "merge" -> "_operator_merge_begin".
func OperatorBeginName(operator string) string {
	return operatorPrefix + operator + operatorBeginSuffix
}

// OperatorEndName returns the end marker predicate name for a surface
// operator predicate, e.g. "merge" -> "_operator_merge_end".
func OperatorEndName(operator string) string {
	return operatorPrefix + operator + operatorEndSuffix
}

// IsOperatorBegin reports whether predicate is an operator-begin marker and
// returns the operator name it delimits.
func IsOperatorBegin(predicate string) (operator string, ok bool) {
	if strings.HasPrefix(predicate, operatorPrefix) && strings.HasSuffix(predicate, operatorBeginSuffix) {
		return predicate[len(operatorPrefix) : len(predicate)-len(operatorBeginSuffix)], true
	}
	return "", false
}

// IsOperatorEnd reports whether predicate is an operator-end marker and
// returns the operator name it delimits.
func IsOperatorEnd(predicate string) (operator string, ok bool) {
	if strings.HasPrefix(predicate, operatorPrefix) && strings.HasSuffix(predicate, operatorEndSuffix) {
		return predicate[len(operatorPrefix) : len(predicate)-len(operatorEndSuffix)], true
	}
	return "", false
}

// Literal is a predicate application, optionally negated, optionally
// carrying a source position.
type Literal struct {
	Positive  bool
	Position  *SourceSpan
	Predicate string
	Args      []Term
}

// Signature returns the (predicate, arity) pair identifying this literal's
// clause-matching key.
func (l Literal) Signature() Signature {
	return Signature{Predicate: l.Predicate, Arity: len(l.Args)}
}

// Negated returns a copy of l with its polarity flipped.
func (l Literal) Negated() Literal {
	n := l
	n.Positive = !l.Positive
	return n
}

// IsGround reports whether every argument of l is ground.
func (l Literal) IsGround() bool {
	for _, a := range l.Args {
		if !IsGround(a) {
			return false
		}
	}
	return true
}

// Equal reports structural equality: same polarity, predicate, and
// pairwise-equal arguments. Source position is not compared.
func (l Literal) Equal(o Literal) bool {
	if l.Positive != o.Positive || l.Predicate != o.Predicate || len(l.Args) != len(o.Args) {
		return false
	}
	for i := range l.Args {
		if !l.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (l Literal) String() string {
	parts := make([]string, len(l.Args))
	for i, a := range l.Args {
		parts[i] = a.String()
	}
	prefix := ""
	if !l.Positive {
		prefix = "!"
	}
	if len(l.Args) == 0 {
		return prefix + l.Predicate
	}
	return fmt.Sprintf("%s%s(%s)", prefix, l.Predicate, strings.Join(parts, ", "))
}

// Clause is a definite Horn clause: a positive head and a (possibly empty)
// conjunctive body. Facts are clauses with an empty body.
type Clause struct {
	Head Literal
	Body []Literal
}

func (c Clause) String() string {
	if len(c.Body) == 0 {
		return c.Head.String() + "."
	}
	parts := make([]string, len(c.Body))
	for i, l := range c.Body {
		parts[i] = l.String()
	}
	return fmt.Sprintf("%s :- %s.", c.Head, strings.Join(parts, ", "))
}
