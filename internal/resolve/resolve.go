// Package resolve implements the depth-bounded SLD resolver (spec §4.4):
// goal-directed top-down proof search over the lowered clause database,
// producing a proof forest with builtin dispatch and stratified
// negation-as-failure.
//
// Grounded primarily on spec §4.4 itself — the real Rust `sld.rs` module
// was referenced by original_source/src/builtin.rs's test suite
// (`crate::sld::sld`/`solutions`/`proofs`) but was not included in the
// retrieved pack, so this is a from-scratch implementation of the spec's
// algorithm-level description rather than a translation. Control-flow
// idioms (typed errors, no hidden global state beyond the process-wide
// counters already in internal/logic) follow the teacher's
// internal/mangle/engine.go.
package resolve

import (
	"fmt"

	"modus/internal/builtin"
	"modus/internal/logic"
	"modus/internal/unify"
)

// ClauseKind tags the kind of clause a Proof node applied.
type ClauseKind int

const (
	KindQuery ClauseKind = iota
	KindRule
	KindBuiltin
	KindNegationCheck
)

func (k ClauseKind) String() string {
	switch k {
	case KindQuery:
		return "Query"
	case KindRule:
		return "Rule"
	case KindBuiltin:
		return "Builtin"
	case KindNegationCheck:
		return "NegationCheck"
	default:
		return "Unknown"
	}
}

// ClauseID identifies which clause a Proof node used.
type ClauseID struct {
	Kind      ClauseKind
	RuleIndex int // valid when Kind == KindRule
}

// Proof is one node of the proof tree: the clause applied, the literal it
// resolved (fully substituted under the final valuation — for a Rule node
// this is its clause head substituted under the valuation that proves its
// whole body, mirroring `rules[rid].head.substitute(&proof.valuation)` in
// the original planner), the substitution it produced, and the proofs of
// its body literals in source order (empty for Builtin/NegationCheck
// leaves).
type Proof struct {
	ClauseID  ClauseID
	Literal   logic.Literal
	Valuation unify.Substitution
	Children  []*Proof
}

// ErrorKind enumerates the kinds of non-fatal-but-reportable resolution
// outcomes (spec §7).
type ErrorKind int

const (
	ErrMaxDepthExceeded ErrorKind = iota
	ErrUngroundedNegation
	ErrBuiltinFailure
	ErrMaxStepsExceeded
)

// ResolutionError is one diagnostic produced during search. BuiltinFailure
// (and the GroundnessMismatch case folded into it) close only the branch
// that produced them; they are not fatal unless every branch fails.
type ResolutionError struct {
	Kind    ErrorKind
	Literal logic.Literal
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case ErrMaxDepthExceeded:
		return fmt.Sprintf("max depth exceeded resolving %s", e.Literal)
	case ErrUngroundedNegation:
		return fmt.Sprintf("negation attempted on non-ground literal %s", e.Literal)
	case ErrBuiltinFailure:
		return fmt.Sprintf("builtin failed for %s", e.Literal)
	case ErrMaxStepsExceeded:
		return fmt.Sprintf("max step count exceeded resolving %s", e.Literal)
	default:
		return "unknown resolution error"
	}
}

// Options configures a single resolution run.
type Options struct {
	// MaxDepth bounds the number of literal-dispatch steps along any
	// single derivation path (spec §4.4 step 4; spec §4.6 uses 175).
	MaxDepth int
	// StoreTree, when false, caps the diagnostics recorded along dead
	// branches at the first 64, bounding peak memory on large searches
	// (spec §9). Solutions themselves are always returned in full
	// regardless of this flag.
	StoreTree bool
	// MaxSteps caps the total number of literal-dispatch steps across the
	// entire search (SPEC_FULL.md §11's evaluation safety limit), as
	// opposed to MaxDepth's per-branch bound. Zero means unbounded.
	MaxSteps int
}

// Solution is one successful derivation of the full goal sequence: the
// substitution active at the end, and one Proof per original goal
// literal, in order.
type Solution struct {
	Substitution unify.Substitution
	Proofs       []*Proof
}

// Resolve searches for every derivation (up to MaxDepth) of goals against
// clauses, returning the solutions found in deterministic left-to-right
// order and the diagnostics accumulated along dead branches.
func Resolve(clauses []logic.Clause, goals []logic.Literal, opts Options) ([]Solution, []*ResolutionError) {
	r := &resolver{clauses: clauses, storeTree: opts.StoreTree, maxSteps: opts.MaxSteps}
	seqs := r.resolveSeq(goals, unify.Substitution{}, opts.MaxDepth)
	solutions := make([]Solution, 0, len(seqs))
	for _, s := range seqs {
		solutions = append(solutions, Solution{Substitution: s.subst, Proofs: s.nodes})
	}
	return solutions, r.errors
}

type resolver struct {
	clauses   []logic.Clause
	storeTree bool
	errors    []*ResolutionError
	// maxSteps/steps enforce Options.MaxSteps: steps counts one increment
	// per literal dispatched via resolveSeq, independent of MaxDepth's
	// per-branch bound. stepLimitHit guards against recording the same
	// diagnostic once per still-live branch after the budget is spent.
	maxSteps     int
	steps        int
	stepLimitHit bool
}

func (r *resolver) recordError(e *ResolutionError) {
	if r.storeTree || len(r.errors) < 64 {
		r.errors = append(r.errors, e)
	}
}

type seqResult struct {
	subst unify.Substitution
	nodes []*Proof
}

// resolveSeq finds every way to prove goals in order under subst within
// the remaining depth budget, returning one seqResult per successful
// derivation. len(result.nodes) == len(goals) always: each original goal
// literal contributes exactly one Proof node (its own body proofs become
// that node's Children), so the shape of the returned forest mirrors the
// original goal sequence regardless of how deep any single goal's proof
// recurses.
func (r *resolver) resolveSeq(goals []logic.Literal, subst unify.Substitution, depth int) []seqResult {
	if len(goals) == 0 {
		return []seqResult{{subst: subst, nodes: nil}}
	}
	if depth <= 0 {
		r.recordError(&ResolutionError{Kind: ErrMaxDepthExceeded, Literal: goals[0]})
		return nil
	}
	if r.maxSteps > 0 {
		r.steps++
		if r.steps > r.maxSteps {
			if !r.stepLimitHit {
				r.stepLimitHit = true
				r.recordError(&ResolutionError{Kind: ErrMaxStepsExceeded, Literal: goals[0]})
			}
			return nil
		}
	}

	first := unify.ApplyLiteral(subst, goals[0])
	rest := goals[1:]

	var results []seqResult
	for _, branch := range r.resolveOne(first, subst, depth-1) {
		tailResults := r.resolveSeq(rest, branch.subst, depth-1)
		for _, tail := range tailResults {
			nodes := make([]*Proof, 0, 1+len(tail.nodes))
			nodes = append(nodes, branch.node)
			nodes = append(nodes, tail.nodes...)
			results = append(results, seqResult{subst: tail.subst, nodes: nodes})
		}
	}
	return results
}

type oneResult struct {
	node  *Proof
	subst unify.Substitution
}

// resolveOne finds every way to resolve a single (already subst-applied)
// literal, returning the produced Proof node and the substitution active
// after that node (including, for Rule nodes, the substitution produced
// by fully proving its body).
func (r *resolver) resolveOne(lit logic.Literal, subst unify.Substitution, depth int) []oneResult {
	if !lit.Positive {
		return r.resolveNegation(lit, subst, depth)
	}

	res, pred := builtin.Select(lit)
	switch res {
	case builtin.Match:
		resolvent, ok := pred.Apply(lit)
		if !ok {
			r.recordError(&ResolutionError{Kind: ErrBuiltinFailure, Literal: lit})
			return nil
		}
		upd, ok := unify.Unify(lit, resolvent)
		if !ok {
			r.recordError(&ResolutionError{Kind: ErrBuiltinFailure, Literal: lit})
			return nil
		}
		newSubst := unify.Compose(subst, upd)
		groundLit := unify.ApplyLiteral(newSubst, lit)
		node := &Proof{ClauseID: ClauseID{Kind: KindBuiltin}, Literal: groundLit}
		return []oneResult{{node: node, subst: newSubst}}

	case builtin.GroundnessMismatch:
		r.recordError(&ResolutionError{Kind: ErrBuiltinFailure, Literal: lit})
		return nil

	default: // NoMatch: ordinary clause-based resolution
		return r.resolveRules(lit, subst, depth)
	}
}

func (r *resolver) resolveRules(lit logic.Literal, subst unify.Substitution, depth int) []oneResult {
	var results []oneResult
	sig := lit.Signature()
	for idx, c := range r.clauses {
		if c.Head.Signature() != sig {
			continue
		}
		renamed := logic.RenameClause(c)
		upd, ok := unify.Unify(lit, renamed.Head)
		if !ok {
			continue
		}
		newSubst := unify.Compose(subst, upd)
		bodySeqs := r.resolveSeq(renamed.Body, newSubst, depth)
		for _, bs := range bodySeqs {
			node := &Proof{
				ClauseID:  ClauseID{Kind: KindRule, RuleIndex: idx},
				Literal:   unify.ApplyLiteral(bs.subst, renamed.Head),
				Valuation: bs.subst,
				Children:  bs.nodes,
			}
			results = append(results, oneResult{node: node, subst: bs.subst})
		}
	}
	return results
}

// resolveNegation implements stratified negation-as-failure (spec §4.4
// step 3): the literal must be fully ground at the point it is reached;
// the inner search recurses on its positive form with no
// output-substitution propagation, and this branch succeeds iff that
// inner search has zero solutions.
func (r *resolver) resolveNegation(lit logic.Literal, subst unify.Substitution, depth int) []oneResult {
	if !lit.IsGround() {
		r.recordError(&ResolutionError{Kind: ErrUngroundedNegation, Literal: lit})
		return nil
	}
	positive := lit.Negated()
	inner := r.resolveSeq([]logic.Literal{positive}, unify.Substitution{}, depth)
	if len(inner) > 0 {
		// The negated goal is provable: this branch fails entirely.
		return nil
	}
	node := &Proof{ClauseID: ClauseID{Kind: KindNegationCheck}, Literal: lit}
	return []oneResult{{node: node, subst: subst}}
}
