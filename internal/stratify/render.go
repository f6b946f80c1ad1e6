package stratify

import (
	"fmt"
	"strconv"
	"strings"

	"modus/internal/logic"
)

// render converts a lowered clause database into Mangle source text. Every
// distinct variable within a clause (other than AnonymousVariable, which
// maps to Mangle's `_` wildcard) is renamed to a capitalized placeholder,
// since Mangle requires variable identifiers to start with an uppercase
// letter and this IR's UserVariable names carry whatever case the surface
// program used.
func render(clauses []logic.Clause) string {
	var b strings.Builder
	for _, c := range clauses {
		names := map[string]string{}
		b.WriteString(renderLiteral(c.Head, names))
		if len(c.Body) > 0 {
			b.WriteString(" :- ")
			parts := make([]string, len(c.Body))
			for i, lit := range c.Body {
				parts[i] = renderLiteral(lit, names)
			}
			b.WriteString(strings.Join(parts, ", "))
		}
		b.WriteString(".\n")
	}
	return b.String()
}

func renderLiteral(lit logic.Literal, names map[string]string) string {
	var b strings.Builder
	if !lit.Positive {
		b.WriteString("!")
	}
	b.WriteString(sanitizePredicate(lit.Predicate))
	b.WriteString("(")
	parts := make([]string, len(lit.Args))
	for i, a := range lit.Args {
		parts[i] = renderTerm(a, names)
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	return b.String()
}

func renderTerm(t logic.Term, names map[string]string) string {
	switch v := t.(type) {
	case logic.Constant:
		return strconv.Quote(v.Value)
	case logic.List:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = renderTerm(e, names)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case logic.AnonymousVariable:
		return "_"
	default:
		key := t.String()
		if name, ok := names[key]; ok {
			return name
		}
		name := fmt.Sprintf("V%d", len(names))
		names[key] = name
		return name
	}
}

// sanitizePredicate maps the IR's operator-marker naming convention
// (leading underscore) into a Mangle-legal predicate name: Mangle
// predicate symbols following this codebase's convention are expected to
// start with a lowercase letter, so a leading "_operator_" is rewritten to
// a safe "operator_" prefix purely for the exported text; it carries no
// semantic meaning back into the engine, which never re-parses this
// output.
func sanitizePredicate(name string) string {
	return strings.TrimPrefix(name, "_")
}
