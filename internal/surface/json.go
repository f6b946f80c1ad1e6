package surface

// json.go gives the surface AST a JSON transport, discriminated-struct
// style (a flat struct with a Kind tag plus every variant's fields marked
// omitempty), matching the convention internal/mangle/synth/spec.go uses
// for its own polymorphic TermSpec/ExprSpec payloads. The real surface
// parser is an out-of-scope external collaborator (spec §1); JSON is the
// concrete wire format cmd/modus reads a ModusClause/Expression/Query
// from in its place.

import (
	"encoding/json"
	"fmt"
)

type termJSON struct {
	Kind     string        `json:"kind"`
	Value    string        `json:"value,omitempty"`
	Name     string        `json:"name,omitempty"`
	Segments []segmentJSON `json:"segments,omitempty"`
	Elements []termJSON    `json:"elements,omitempty"`
}

type segmentJSON struct {
	Literal      string `json:"literal,omitempty"`
	Interpolated bool   `json:"interpolated,omitempty"`
	VariableName string `json:"variable_name,omitempty"`
}

func encodeTerm(t Term) termJSON {
	switch v := t.(type) {
	case ConstantTerm:
		return termJSON{Kind: "constant", Value: v.Value}
	case VariableTerm:
		return termJSON{Kind: "variable", Name: v.Name}
	case FormatStringTerm:
		segs := make([]segmentJSON, len(v.Segments))
		for i, s := range v.Segments {
			segs[i] = segmentJSON{Literal: s.Literal, Interpolated: s.Interpolated, VariableName: s.VariableName}
		}
		return termJSON{Kind: "format", Segments: segs}
	case ListTerm:
		elems := make([]termJSON, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = encodeTerm(e)
		}
		return termJSON{Kind: "list", Elements: elems}
	default:
		panic(fmt.Sprintf("surface: unknown term type %T", t))
	}
}

func decodeTerm(j termJSON) (Term, error) {
	switch j.Kind {
	case "constant":
		return ConstantTerm{Value: j.Value}, nil
	case "variable":
		return VariableTerm{Name: j.Name}, nil
	case "format":
		segs := make([]FormatStringSegment, len(j.Segments))
		for i, s := range j.Segments {
			segs[i] = FormatStringSegment{Literal: s.Literal, Interpolated: s.Interpolated, VariableName: s.VariableName}
		}
		return FormatStringTerm{Segments: segs}, nil
	case "list":
		elems := make([]Term, len(j.Elements))
		for i, e := range j.Elements {
			t, err := decodeTerm(e)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return ListTerm{Elements: elems}, nil
	default:
		return nil, fmt.Errorf("surface: unknown term kind %q", j.Kind)
	}
}

type literalJSON struct {
	Positive  bool       `json:"positive"`
	Predicate string     `json:"predicate"`
	Args      []termJSON `json:"args,omitempty"`
}

func encodeLiteral(l Literal) literalJSON {
	args := make([]termJSON, len(l.Args))
	for i, a := range l.Args {
		args[i] = encodeTerm(a)
	}
	return literalJSON{Positive: l.Positive, Predicate: l.Predicate, Args: args}
}

func decodeLiteral(j literalJSON) (Literal, error) {
	args := make([]Term, len(j.Args))
	for i, a := range j.Args {
		t, err := decodeTerm(a)
		if err != nil {
			return Literal{}, err
		}
		args[i] = t
	}
	return Literal{Positive: j.Positive, Predicate: j.Predicate, Args: args}, nil
}

// MarshalJSON implements json.Marshaler for Literal, needed since Args
// holds the Term interface.
func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeLiteral(l))
}

// UnmarshalJSON implements json.Unmarshaler for Literal.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var j literalJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	decoded, err := decodeLiteral(j)
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}

type exprJSON struct {
	Kind     string       `json:"kind"`
	Literal  *literalJSON `json:"literal,omitempty"`
	Inner    *exprJSON    `json:"inner,omitempty"`
	Operator *literalJSON `json:"operator,omitempty"`
	Left     *exprJSON    `json:"left,omitempty"`
	Right    *exprJSON    `json:"right,omitempty"`
	Positive bool         `json:"positive,omitempty"`
}

func encodeExpression(e Expression) *exprJSON {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case ExprLiteral:
		lit := encodeLiteral(v.Literal)
		return &exprJSON{Kind: "literal", Literal: &lit}
	case ExprOperatorApplication:
		op := encodeLiteral(v.Operator)
		return &exprJSON{Kind: "operator", Inner: encodeExpression(v.Inner), Operator: &op}
	case ExprAnd:
		return &exprJSON{Kind: "and", Left: encodeExpression(v.Left), Right: encodeExpression(v.Right), Positive: v.Positive}
	case ExprOr:
		return &exprJSON{Kind: "or", Left: encodeExpression(v.Left), Right: encodeExpression(v.Right), Positive: v.Positive}
	default:
		panic(fmt.Sprintf("surface: unknown expression type %T", e))
	}
}

func decodeExpression(j *exprJSON) (Expression, error) {
	if j == nil {
		return nil, nil
	}
	switch j.Kind {
	case "literal":
		if j.Literal == nil {
			return nil, fmt.Errorf("surface: literal expression missing literal field")
		}
		lit, err := decodeLiteral(*j.Literal)
		if err != nil {
			return nil, err
		}
		return ExprLiteral{Literal: lit}, nil
	case "operator":
		if j.Operator == nil {
			return nil, fmt.Errorf("surface: operator expression missing operator field")
		}
		op, err := decodeLiteral(*j.Operator)
		if err != nil {
			return nil, err
		}
		inner, err := decodeExpression(j.Inner)
		if err != nil {
			return nil, err
		}
		return ExprOperatorApplication{Inner: inner, Operator: op}, nil
	case "and":
		left, err := decodeExpression(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(j.Right)
		if err != nil {
			return nil, err
		}
		return ExprAnd{Left: left, Right: right, Positive: j.Positive}, nil
	case "or":
		left, err := decodeExpression(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(j.Right)
		if err != nil {
			return nil, err
		}
		return ExprOr{Left: left, Right: right, Positive: j.Positive}, nil
	default:
		return nil, fmt.Errorf("surface: unknown expression kind %q", j.Kind)
	}
}

// MarshalExpression/UnmarshalExpression expose the discriminated encoding
// for callers that need to embed an Expression inside a larger JSON
// document (e.g. cmd/modus's query-file format).
func MarshalExpression(e Expression) ([]byte, error) {
	return json.Marshal(encodeExpression(e))
}

func UnmarshalExpression(data []byte) (Expression, error) {
	var j exprJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return decodeExpression(&j)
}

type modusClauseJSON struct {
	Head literalJSON `json:"head"`
	Body *exprJSON   `json:"body,omitempty"`
}

// MarshalJSON implements json.Marshaler for ModusClause, needed since
// Body holds the Expression interface.
func (mc ModusClause) MarshalJSON() ([]byte, error) {
	return json.Marshal(modusClauseJSON{Head: encodeLiteral(mc.Head), Body: encodeExpression(mc.Body)})
}

// UnmarshalJSON implements json.Unmarshaler for ModusClause.
func (mc *ModusClause) UnmarshalJSON(data []byte) error {
	var j modusClauseJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	head, err := decodeLiteral(j.Head)
	if err != nil {
		return err
	}
	body, err := decodeExpression(j.Body)
	if err != nil {
		return err
	}
	mc.Head = head
	mc.Body = body
	return nil
}
