// Package builtin implements the side-effect-free builtin predicate table
// (spec §4.2): string/arithmetic predicates selected by groundness mode,
// plus the intrinsic operator-marker predicates that exist purely to
// survive into the proof tree for the build planner to consume.
//
// Grounded on original_source/src/builtin.rs's BuiltinPredicate trait and
// select_builtin dispatch; translated from Rust trait objects to a Go
// slice-of-structs table searched in declaration order, since Go has no
// direct analogue of Rust's macro-generated trait-impl list.
package builtin

import (
	"strconv"
	"strings"

	"modus/internal/logic"
)

// SelectResult is the outcome of attempting to select a builtin for a
// literal.
type SelectResult int

const (
	// NoMatch means no builtin with this name exists.
	NoMatch SelectResult = iota
	// GroundnessMismatch means a builtin with this name exists, but the
	// literal's arguments don't satisfy any of its groundness modes.
	GroundnessMismatch
	// Match means a builtin matched and apply() may be invoked.
	Match
)

// Predicate is one entry in the builtin table: a name, a fixed groundness
// mode (true = may be non-ground, false = must already be a Constant),
// and an apply function producing the fully-ground resolvent head.
type Predicate struct {
	Name      string
	Groundness []bool
	Apply     func(lit logic.Literal) (logic.Literal, bool)
}

func (p Predicate) matchesGroundness(args []logic.Term) bool {
	if len(args) != len(p.Groundness) {
		return false
	}
	for i, allowUngrounded := range p.Groundness {
		if allowUngrounded {
			continue
		}
		if _, ok := args[i].(logic.Constant); !ok {
			return false
		}
	}
	return true
}

func asConstant(t logic.Term) (string, bool) {
	c, ok := t.(logic.Constant)
	if !ok {
		return "", false
	}
	return c.Value, true
}

func stringConcatLiteral(pos *logic.SourceSpan, a, b, c string) logic.Literal {
	return logic.Literal{
		Positive:  true,
		Position:  pos,
		Predicate: "string_concat",
		Args: []logic.Term{
			logic.Constant{Value: a},
			logic.Constant{Value: b},
			logic.Constant{Value: c},
		},
	}
}

func stringEqLiteral(pos *logic.SourceSpan, a, b string) logic.Literal {
	return logic.Literal{
		Positive:  true,
		Position:  pos,
		Predicate: "string_eq",
		Args: []logic.Term{
			logic.Constant{Value: a},
			logic.Constant{Value: b},
		},
	}
}

// identityApply is the apply() used by intrinsic markers: the resolvent
// is the input literal itself, since their entire purpose is to be
// present in the proof tree, not to compute anything.
func identityApply(lit logic.Literal) (logic.Literal, bool) {
	return lit, true
}

// intrinsic declares an intrinsic operator-marker builtin with every
// argument required ground.
func intrinsic(name string, arity int) Predicate {
	groundness := make([]bool, arity)
	return Predicate{Name: name, Groundness: groundness, Apply: identityApply}
}

// Table is the ordered builtin registry. Multiple entries may share a
// name with different groundness modes; the first one whose groundness
// mode matches wins (spec §4.2). Order mirrors
// original_source/src/builtin.rs's select_builtin! macro invocation list,
// extended with set_cmd/set_label/set_user operator markers that the
// stale Rust draft never grew but spec §4.2 requires.
var Table = []Predicate{
	{
		Name:       "string_concat",
		Groundness: []bool{false, false, true},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			a, _ := asConstant(lit.Args[0])
			b, _ := asConstant(lit.Args[1])
			return stringConcatLiteral(lit.Position, a, b, a+b), true
		},
	},
	{
		Name:       "string_concat",
		Groundness: []bool{true, false, false},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			b, _ := asConstant(lit.Args[1])
			c, _ := asConstant(lit.Args[2])
			a, ok := strings.CutSuffix(c, b)
			if !ok {
				return logic.Literal{}, false
			}
			return stringConcatLiteral(lit.Position, a, b, c), true
		},
	},
	{
		Name:       "string_concat",
		Groundness: []bool{false, true, false},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			a, _ := asConstant(lit.Args[0])
			c, _ := asConstant(lit.Args[2])
			b, ok := strings.CutPrefix(c, a)
			if !ok {
				return logic.Literal{}, false
			}
			return stringConcatLiteral(lit.Position, a, b, c), true
		},
	},
	intrinsic("run", 1),
	intrinsic("from", 1),
	intrinsic(logic.OperatorBeginName("copy"), 3),
	intrinsic(logic.OperatorEndName("copy"), 3),
	intrinsic(logic.OperatorBeginName("in_workdir"), 2),
	intrinsic(logic.OperatorEndName("in_workdir"), 2),
	intrinsic(logic.OperatorBeginName("set_workdir"), 2),
	intrinsic(logic.OperatorEndName("set_workdir"), 2),
	intrinsic(logic.OperatorBeginName("set_entrypoint"), 2),
	intrinsic(logic.OperatorEndName("set_entrypoint"), 2),
	intrinsic(logic.OperatorBeginName("set_cmd"), 2),
	intrinsic(logic.OperatorEndName("set_cmd"), 2),
	intrinsic(logic.OperatorBeginName("set_env"), 3),
	intrinsic(logic.OperatorEndName("set_env"), 3),
	intrinsic(logic.OperatorBeginName("in_env"), 3),
	intrinsic(logic.OperatorEndName("in_env"), 3),
	intrinsic(logic.OperatorBeginName("append_path"), 2),
	intrinsic(logic.OperatorEndName("append_path"), 2),
	intrinsic(logic.OperatorBeginName("set_label"), 3),
	intrinsic(logic.OperatorEndName("set_label"), 3),
	intrinsic(logic.OperatorBeginName("set_user"), 2),
	intrinsic(logic.OperatorEndName("set_user"), 2),
	intrinsic("copy", 2),
	{
		Name:       "string_eq",
		Groundness: []bool{false, true},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			a, _ := asConstant(lit.Args[0])
			return stringEqLiteral(lit.Position, a, a), true
		},
	},
	{
		Name:       "string_eq",
		Groundness: []bool{true, false},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			b, _ := asConstant(lit.Args[1])
			return stringEqLiteral(lit.Position, b, b), true
		},
	},
	intrinsic(logic.OperatorBeginName("merge"), 1),
	intrinsic(logic.OperatorEndName("merge"), 1),
	{
		Name:       "number_gt",
		Groundness: []bool{false, false},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			a, b, ok := parseNumberPair(lit)
			if !ok || !(a > b) {
				return logic.Literal{}, false
			}
			return lit, true
		},
	},
	{
		Name:       "number_geq",
		Groundness: []bool{false, false},
		Apply: func(lit logic.Literal) (logic.Literal, bool) {
			a, b, ok := parseNumberPair(lit)
			if !ok || !(a >= b) {
				return logic.Literal{}, false
			}
			return lit, true
		},
	},
}

func parseNumberPair(lit logic.Literal) (a, b float64, ok bool) {
	as, ok1 := asConstant(lit.Args[0])
	bs, ok2 := asConstant(lit.Args[1])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	a, err1 := strconv.ParseFloat(as, 64)
	b, err2 := strconv.ParseFloat(bs, 64)
	return a, b, err1 == nil && err2 == nil
}

// Select scans Table in order for the first entry whose name matches
// lit.Predicate. If any name-matching entry's groundness mode is also
// satisfied by lit's arguments, that entry and Match are returned. If at
// least one name matches but none of their groundness modes are
// satisfied, GroundnessMismatch is returned. Otherwise NoMatch.
func Select(lit logic.Literal) (SelectResult, *Predicate) {
	sawNameMatch := false
	for i := range Table {
		p := &Table[i]
		if p.Name != lit.Predicate {
			continue
		}
		sawNameMatch = true
		if p.matchesGroundness(lit.Args) {
			return Match, p
		}
	}
	if sawNameMatch {
		return GroundnessMismatch, nil
	}
	return NoMatch, nil
}

// IsIntrinsic reports whether name is one of the always-ground intrinsic
// markers (run, from, copy, or any _operator_*_begin/_end).
func IsIntrinsic(name string) bool {
	if name == "run" || name == "from" || name == "copy" {
		return true
	}
	if _, ok := logic.IsOperatorBegin(name); ok {
		return true
	}
	if _, ok := logic.IsOperatorEnd(name); ok {
		return true
	}
	return false
}
