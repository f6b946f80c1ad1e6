// Package kindcheck infers the predicate kind (Image, Layer, or Logic) of
// every predicate in a lowered clause database, used to validate a query
// before resolution begins (spec §4.6 step 3: a query must denote exactly
// one Image-kinded literal and zero Layer-kinded literals).
//
// Grounded on original_source/modus-lib/src/logic.rs's Predicate::naive_predicate_kind
// for the intrinsic base case. spec.md does not specify how a
// user-defined predicate's kind is inferred from its clauses; the
// least-fixpoint join implemented here is this implementation's own
// design, recorded as an Open Question decision (SPEC_FULL.md §14).
package kindcheck

import "modus/internal/logic"

// Kind classifies what a predicate produces when proved.
type Kind int

const (
	// Logic predicates produce no build artifact.
	Logic Kind = iota
	// Layer predicates append filesystem layers/metadata to an in-progress
	// image.
	Layer
	// Image predicates produce a complete, nameable image.
	Image
)

func (k Kind) String() string {
	switch k {
	case Logic:
		return "Logic"
	case Layer:
		return "Layer"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// join implements Image ⊐ Layer ⊐ Logic: the higher kind dominates, so a
// clause mixing kinds takes on the highest kind present in its body.
func join(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

// intrinsicKind returns the base-case kind for a literal that isn't
// resolved against the user's clause database: from -> Image, run/copy (and
// any operator-begin/end marker) -> Layer, everything else falls through to
// the fixpoint computed from user clauses.
func intrinsicKind(predicate string) (Kind, bool) {
	switch predicate {
	case "from":
		return Image, true
	case "run", "copy":
		return Layer, true
	}
	if _, ok := logic.IsOperatorBegin(predicate); ok {
		return Layer, true
	}
	if _, ok := logic.IsOperatorEnd(predicate); ok {
		return Layer, true
	}
	return Logic, false
}

// Kinds maps every predicate signature appearing as a clause head in
// clauses to its inferred Kind.
type Kinds map[logic.Signature]Kind

// Infer computes the least fixpoint of predicate kinds over clauses.
// Predicates with no user-defined clauses default to Logic unless they
// match an intrinsic. Negated body literals and operator-marker literals
// do not contribute to a clause's join (a clause's externally-visible
// kind is about what it builds, not what control-flow markers it passes
// through).
func Infer(clauses []logic.Clause) Kinds {
	kinds := Kinds{}
	for _, c := range clauses {
		sig := c.Head.Signature()
		if _, ok := kinds[sig]; !ok {
			kinds[sig] = Logic
		}
	}

	changed := true
	for changed {
		changed = false
		for _, c := range clauses {
			sig := c.Head.Signature()
			bodyKind := bodyJoin(c.Body, kinds)
			if bodyKind > kinds[sig] {
				kinds[sig] = bodyKind
				changed = true
			}
		}
	}
	return kinds
}

func bodyJoin(body []logic.Literal, kinds Kinds) Kind {
	acc := Logic
	for _, lit := range body {
		if !lit.Positive {
			continue
		}
		if _, isMarker := logic.IsOperatorBegin(lit.Predicate); isMarker {
			continue
		}
		if _, isMarker := logic.IsOperatorEnd(lit.Predicate); isMarker {
			continue
		}
		if k, ok := intrinsicKind(lit.Predicate); ok {
			acc = join(acc, k)
			continue
		}
		if k, ok := kinds[lit.Signature()]; ok {
			acc = join(acc, k)
		}
	}
	return acc
}

// Lookup returns the kind of sig: the intrinsic table is consulted first,
// then the inferred kinds of user clauses, and finally Logic if sig has
// neither an intrinsic definition nor user clauses.
func (k Kinds) Lookup(sig logic.Signature) Kind {
	if kind, ok := intrinsicKind(sig.Predicate); ok {
		return kind
	}
	if kind, ok := k[sig]; ok {
		return kind
	}
	return Logic
}
