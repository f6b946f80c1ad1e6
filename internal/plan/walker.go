package plan

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"modus/internal/logic"
	"modus/internal/resolve"
)

// BuildDAGFromProofs walks a resolved proof forest for a set of queried
// image literals and returns the resulting BuildPlan.
//
// queries pairs each queried (ground) literal with the proof of that
// literal (a resolve.Solution.Proofs slice for the single goal, normally
// one Rule proof whose Children are the clause body) — the caller has
// already run resolve.Resolve and selected one solution per query. logger receives Warn diagnostics for constructs that are
// accepted but likely unintended (spec §14's set_workdir-inside-in_workdir
// decision); a nil logger is treated as zap.NewNop().
//
// Any malformed-proof invariant violation (a from that isn't first, a run
// with no base layer, nested merges, etc. — situations that a correct
// resolver/kindcheck pass should never produce) is reported as a
// *PlanError rather than left to crash the process, matching
// imagegen.rs's build_dag_from_proofs in behavior (it enforces the same
// invariants) while adapting its panic!/unwrap() style to Go's idiom of
// recovering at a clear boundary instead of threading error returns
// through every recursive helper.
func BuildDAGFromProofs(queries []QueryProof, logger *zap.Logger) (plan *BuildPlan, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &walker{plan: NewBuildPlan(), imageLiterals: map[string]NodeId{}, logger: logger}

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*PlanError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	for _, q := range queries {
		if existing, ok := w.imageLiterals[q.Query.String()]; ok {
			w.plan.Outputs = append(w.plan.Outputs, Output{Node: existing, SourceLiteral: q.Query.String()})
			continue
		}
		// q.Proofs is normally a single Rule proof for the queried literal
		// itself (the proof of how it was derived, not its body). Unwrap it
		// one level here so process_image walks the clause's body directly;
		// otherwise process_tree's own Rule-literal handling below would
		// already tag-and-cache this exact literal on the way back up,
		// and we'd wrap it in a second, redundant SetLabel.
		subtree := q.Proofs
		if len(subtree) == 1 && subtree[0].ClauseID.Kind == resolve.KindRule {
			subtree = subtree[0].Children
		}
		tag := q.Query.String()
		nodeID, ok := w.processImage(subtree, &tag)
		if !ok {
			panic(&PlanError{Kind: ErrDoesNotBuildImage, Detail: fmt.Sprintf("%s does not resolve to any build instructions", q.Query)})
		}
		w.imageLiterals[q.Query.String()] = nodeID
		w.plan.Outputs = append(w.plan.Outputs, Output{Node: nodeID, SourceLiteral: q.Query.String()})
	}
	return w.plan, nil
}

// QueryProof pairs one queried ground image literal with the proof forest
// of the goal sequence that derives it (a resolve.Solution.Proofs slice).
type QueryProof struct {
	Query  logic.Literal
	Proofs []*resolve.Proof
}

// ErrorKind enumerates the invariant violations the walker can report.
type ErrorKind int

const (
	ErrNoBaseLayer ErrorKind = iota
	ErrFromNotFirst
	ErrMergeNested
	ErrAbsoluteLocalCopySource
	ErrOperatorRequiresImage
	ErrOperatorNotFirst
	ErrUnknownOperator
	ErrMergeRequiresBase
	ErrDoesNotBuildImage
)

// PlanError is a malformed-proof invariant violation surfaced by the DAG
// walker.
type PlanError struct {
	Kind   ErrorKind
	Detail string
}

func (e *PlanError) Error() string { return e.Detail }

func fail(kind ErrorKind, format string, args ...any) {
	panic(&PlanError{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

type walker struct {
	plan          *BuildPlan
	imageLiterals map[string]NodeId
	logger        *zap.Logger
}

// state tracks the in-progress image being built while walking one region
// of the proof tree (spec §4.5): the current frontier node, the active
// working directory, an in-progress merge (if any), and any additional
// environment variables introduced by an in_env region. Scoped-restoration
// helpers below guarantee cwd/merge/env changes never leak past the
// subtree that introduced them.
type state struct {
	currentNode     *NodeId
	cwd             string
	currentMerge    *MergeNode
	additionalEnvs  map[string]string
	inWorkdirRegion bool
}

func (s *state) hasBase() bool { return s.currentMerge != nil || s.currentNode != nil }

func (s *state) setNode(id NodeId) {
	n := id
	s.currentNode = &n
}

func withNewCwd(s *state, newCwd string, inWorkdir bool, f func()) {
	oldCwd, oldFlag := s.cwd, s.inWorkdirRegion
	s.cwd = newCwd
	s.inWorkdirRegion = s.inWorkdirRegion || inWorkdir
	defer func() { s.cwd, s.inWorkdirRegion = oldCwd, oldFlag }()
	f()
}

func withNewMerge(s *state, newMerge MergeNode, f func()) MergeNode {
	if s.currentMerge != nil {
		fail(ErrMergeNested, "cannot start a merge while already inside one")
	}
	m := newMerge
	s.currentMerge = &m
	defer func() { s.currentMerge = nil }()
	f()
	return m
}

func withAdditionalEnvs(s *state, key, value string, f func()) {
	old := s.additionalEnvs
	merged := make(map[string]string, len(old)+1)
	for k, v := range old {
		merged[k] = v
	}
	merged[key] = value
	s.additionalEnvs = merged
	defer func() { s.additionalEnvs = old }()
	f()
}

func cloneEnv(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// processImage walks subtree assuming it builds an image (the body of an
// image literal, or the region between an operator's begin/end markers),
// returning the final frontier node. Returns ok=false if the subtree never
// invoked an image-producing intrinsic (from, or a nested operator).
func (w *walker) processImage(subtree []*resolve.Proof, tagWithLiteral *string) (NodeId, bool) {
	st := &state{additionalEnvs: map[string]string{}}
	w.processChildren(subtree, st)

	if st.currentNode != nil && tagWithLiteral != nil {
		node := *st.currentNode
		tagged := w.plan.NewNode(BuildNode{
			Kind:   KindSetLabel,
			Parent: node,
			Label:  modusLabel,
			Value:  *tagWithLiteral,
		}, []NodeId{node})
		st.setNode(tagged)
	}

	if st.currentNode == nil {
		return 0, false
	}
	return *st.currentNode, true
}

// processChildren walks a sibling sequence of proof nodes in order,
// detecting and consuming operator-begin/end marker pairs as a unit
// (spec §4.5) rather than recursing into them individually.
func (w *walker) processChildren(children []*resolve.Proof, st *state) {
	i := 0
	for i < len(children) {
		child := children[i]
		if child.ClauseID.Kind == resolve.KindBuiltin {
			if opName, isBegin := logic.IsOperatorBegin(child.Literal.Predicate); isBegin {
				endName := logic.OperatorEndName(opName)
				pairID := child.Literal.Args[0]
				j := i + 1
				for {
					if j >= len(children) {
						fail(ErrUnknownOperator, "unterminated operator region for %s", opName)
					}
					end := children[j]
					if end.ClauseID.Kind == resolve.KindBuiltin &&
						end.Literal.Predicate == endName &&
						len(end.Literal.Args) > 0 && end.Literal.Args[0].Equal(pairID) {
						break
					}
					j++
				}
				w.processOperator(children[i+1:j], opName, child.Literal, st)
				i = j + 1
				continue
			}
		}
		w.processTree(child, st)
		i++
	}
}

func (w *walker) processTree(proof *resolve.Proof, st *state) {
	switch proof.ClauseID.Kind {
	case resolve.KindBuiltin:
		w.processIntrinsic(proof.Literal, st)
		return
	case resolve.KindRule:
		if !st.hasBase() {
			key := proof.Literal.String()
			if nodeID, ok := w.imageLiterals[key]; ok {
				st.setNode(nodeID)
				return
			}
			tag := key
			if nodeID, ok := w.processImage(childSlice(proof.Children), &tag); ok {
				st.setNode(nodeID)
				w.imageLiterals[key] = nodeID
				return
			}
			return
		}
		// Already building an image: the subtree of this literal isn't
		// itself an image, so fall through to an ordinary walk.
	}
	w.processChildren(proof.Children, st)
}

func childSlice(children []*resolve.Proof) []*resolve.Proof { return children }

func (w *walker) processIntrinsic(lit logic.Literal, st *state) {
	switch lit.Predicate {
	case "from":
		if st.currentMerge != nil {
			fail(ErrMergeNested, "cannot generate a new image inside a merge")
		}
		if st.hasBase() {
			fail(ErrFromNotFirst, "from must be the first build instruction")
		}
		key := lit.String()
		if nodeID, ok := w.imageLiterals[key]; ok {
			st.setNode(nodeID)
			return
		}
		imageRef := mustConstant(lit, 0)
		var newNode NodeId
		if imageRef == "scratch" {
			newNode = w.plan.NewNode(BuildNode{Kind: KindFromScratch, ScratchRef: nil}, nil)
		} else {
			newNode = w.plan.NewNode(BuildNode{Kind: KindFrom, ImageRef: imageRef, DisplayName: imageRef}, nil)
		}
		st.setNode(newNode)
		w.imageLiterals[key] = newNode

	case "run":
		command := mustConstant(lit, 0)
		if st.currentMerge != nil {
			st.currentMerge.Operations = append(st.currentMerge.Operations, MergeOperation{
				Kind: MergeOpRun, Command: command, Cwd: st.cwd, AdditionalEnvs: cloneEnv(st.additionalEnvs),
			})
			return
		}
		if !st.hasBase() {
			fail(ErrNoBaseLayer, "run has no base layer yet")
		}
		parent := *st.currentNode
		node := w.plan.NewNode(BuildNode{
			Kind: KindRun, Parent: parent, Command: command, Cwd: st.cwd, AdditionalEnvs: cloneEnv(st.additionalEnvs),
		}, []NodeId{parent})
		st.setNode(node)

	case "copy":
		srcPath := mustConstant(lit, 0)
		if path.IsAbs(srcPath) {
			fail(ErrAbsoluteLocalCopySource, "the source of a local copy cannot be an absolute path")
		}
		dstPath := joinPath(st.cwd, mustConstant(lit, 1))
		if st.currentMerge != nil {
			st.currentMerge.Operations = append(st.currentMerge.Operations, MergeOperation{
				Kind: MergeOpCopyFromLocal, SrcPath: srcPath, DstPath: dstPath,
			})
			return
		}
		if !st.hasBase() {
			fail(ErrNoBaseLayer, "copy has no base layer yet")
		}
		parent := *st.currentNode
		node := w.plan.NewNode(BuildNode{Kind: KindCopyFromLocal, Parent: parent, SrcPath: srcPath, DstPath: dstPath}, []NodeId{parent})
		st.setNode(node)

	default:
		// Logic-only builtins (string_concat, string_eq, number_gt, ...)
		// contribute no build instruction.
	}
}

func (w *walker) processOperator(subtreeInOp []*resolve.Proof, opName string, beginLit logic.Literal, st *state) {
	switch opName {
	case "copy":
		srcImage, ok := w.processImage(subtreeInOp, nil)
		if !ok {
			fail(ErrOperatorRequiresImage, "contents of an image-to-image copy do not build an image")
		}
		srcPath := mustConstant(beginLit, 1)
		dstPath := joinPath(st.cwd, mustConstant(beginLit, 2))
		if st.currentMerge != nil {
			st.currentMerge.Operations = append(st.currentMerge.Operations, MergeOperation{
				Kind: MergeOpCopyFromImage, SrcImage: srcImage, SrcPath: srcPath, DstPath: dstPath,
			})
			return
		}
		if !st.hasBase() {
			fail(ErrNoBaseLayer, "copy has no base layer yet")
		}
		parent := *st.currentNode
		node := w.plan.NewNode(BuildNode{
			Kind: KindCopyFromImage, Parent: parent, SrcImage: srcImage, SrcPath: srcPath, DstPath: dstPath,
		}, []NodeId{parent, srcImage})
		st.setNode(node)

	case "in_workdir":
		newP := mustConstant(beginLit, 1)
		newCwd := joinPath(st.cwd, newP)
		withNewCwd(st, newCwd, true, func() {
			w.processChildren(subtreeInOp, st)
		})

	case "set_workdir", "set_entrypoint", "set_cmd", "set_env", "append_path", "set_label", "set_user":
		if st.currentMerge != nil {
			fail(ErrMergeNested, "cannot generate a new image inside a merge")
		}
		if opName == "set_workdir" && st.inWorkdirRegion {
			// spec §14: accepted, but almost certainly unintended.
			w.logger.Warn("set_workdir nested inside in_workdir; likely unintended")
		}
		img, ok := w.processImage(subtreeInOp, nil)
		if !ok {
			fail(ErrOperatorRequiresImage, "%s should be applied to an image", opName)
		}
		if st.hasBase() {
			fail(ErrOperatorNotFirst, "%s generates a new image, so it should be the first instruction", opName)
		}
		w.applyImageOperator(opName, beginLit, img, st)

	case "merge":
		if st.currentMerge != nil {
			w.processChildren(subtreeInOp, st)
			return
		}
		if !st.hasBase() {
			fail(ErrMergeRequiresBase, "merge requires a base layer outside")
		}
		parent := *st.currentNode
		final := withNewMerge(st, MergeNode{Parent: parent}, func() {
			w.processChildren(subtreeInOp, st)
		})
		deps := []NodeId{parent}
		for _, op := range final.Operations {
			if op.Kind == MergeOpCopyFromImage {
				deps = append(deps, op.SrcImage)
			}
		}
		node := w.plan.NewNode(BuildNode{Kind: KindMerge, Merge: &final}, deps)
		st.setNode(node)

	case "in_env":
		key := mustConstant(beginLit, 1)
		value := mustConstant(beginLit, 2)
		withAdditionalEnvs(st, key, value, func() {
			w.processChildren(subtreeInOp, st)
		})

	default:
		fail(ErrUnknownOperator, "unknown operator: %s", opName)
	}
}

func (w *walker) applyImageOperator(opName string, beginLit logic.Literal, img NodeId, st *state) {
	switch opName {
	case "set_workdir":
		newP := mustConstant(beginLit, 1)
		node := w.plan.NewNode(BuildNode{Kind: KindSetWorkdir, Parent: img, NewWorkdir: joinPath(st.cwd, newP)}, []NodeId{img})
		st.setNode(node)
	case "set_entrypoint":
		node := w.plan.NewNode(BuildNode{Kind: KindSetEntrypoint, Parent: img, NewEntrypoint: mustStrings(beginLit, 1)}, []NodeId{img})
		st.setNode(node)
	case "set_cmd":
		node := w.plan.NewNode(BuildNode{Kind: KindSetCmd, Parent: img, NewCmd: mustStrings(beginLit, 1)}, []NodeId{img})
		st.setNode(node)
	case "set_env":
		node := w.plan.NewNode(BuildNode{Kind: KindSetEnv, Parent: img, Key: mustConstant(beginLit, 1), Value: mustConstant(beginLit, 2)}, []NodeId{img})
		st.setNode(node)
	case "append_path":
		node := w.plan.NewNode(BuildNode{Kind: KindAppendEnvValue, Parent: img, Key: "PATH", Value: ":" + mustConstant(beginLit, 1)}, []NodeId{img})
		st.setNode(node)
	case "set_label":
		node := w.plan.NewNode(BuildNode{Kind: KindSetLabel, Parent: img, Label: mustConstant(beginLit, 1), Value: mustConstant(beginLit, 2)}, []NodeId{img})
		st.setNode(node)
	case "set_user":
		node := w.plan.NewNode(BuildNode{Kind: KindSetUser, Parent: img, User: mustConstant(beginLit, 1)}, []NodeId{img})
		st.setNode(node)
	}
}

// joinPath mirrors Rust's Path::join: an absolute p replaces base entirely;
// otherwise the two are joined and cleaned. Container paths are always
// POSIX regardless of host OS, hence "path" rather than "path/filepath".
func joinPath(base, p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Clean(path.Join(base, p))
}

// mustConstant extracts a Constant argument. Every intrinsic's arguments
// are guaranteed ground by internal/builtin's groundness table, so a
// failure here indicates a genuinely malformed proof tree.
func mustConstant(lit logic.Literal, idx int) string {
	c, ok := lit.Args[idx].(logic.Constant)
	if !ok {
		fail(ErrDoesNotBuildImage, "expected constant argument %d of %s, got %v", idx, lit.Predicate, lit.Args[idx])
	}
	return c.Value
}

// mustStrings extracts a Constant or a List of Constants as a string
// slice, for set_entrypoint/set_cmd's list-or-bare-string argument.
func mustStrings(lit logic.Literal, idx int) []string {
	switch v := lit.Args[idx].(type) {
	case logic.Constant:
		return []string{v.Value}
	case logic.List:
		out := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			c, ok := e.(logic.Constant)
			if !ok {
				fail(ErrDoesNotBuildImage, "expected constant list element, got %v", e)
			}
			out[i] = c.Value
		}
		return out
	default:
		fail(ErrDoesNotBuildImage, "expected constant or list argument %d of %s, got %v", idx, lit.Predicate, v)
		return nil
	}
}
