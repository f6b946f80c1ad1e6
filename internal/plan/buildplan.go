// Package plan defines the BuildPlan/BuildNode data model (spec §6) and
// walks a resolved proof forest into one (§4.5): a DAG of container build
// instructions, deduplicated by image-literal sharing, ready for a
// downstream translator (buildkit LLB, Dockerfile, etc. — out of scope
// here) to consume.
//
// Grounded on original_source/modus-lib/src/imagegen.rs in its entirety:
// the State/scoped-restoration idiom, the image-literal sharing table, the
// operator-region begin/end matching in processChildren, and every
// per-operator build rule. JSON field layout follows the teacher's
// discriminated-struct convention for polymorphic payloads (see
// internal/mangle/synth/spec.go's TermSpec/ExprSpec), rather than an
// interface with a custom MarshalJSON, since that is how this codebase
// already represents tagged unions over the wire.
package plan

// NodeId indexes into a BuildPlan's Nodes/Dependencies slices.
type NodeId = int

// NodeKind discriminates which fields of a BuildNode are meaningful.
type NodeKind string

const (
	KindFrom            NodeKind = "from"
	KindFromScratch     NodeKind = "from_scratch"
	KindRun             NodeKind = "run"
	KindCopyFromImage   NodeKind = "copy_from_image"
	KindCopyFromLocal   NodeKind = "copy_from_local"
	KindSetWorkdir      NodeKind = "set_workdir"
	KindSetEntrypoint   NodeKind = "set_entrypoint"
	KindSetCmd          NodeKind = "set_cmd"
	KindSetLabel        NodeKind = "set_label"
	KindMerge           NodeKind = "merge"
	KindSetEnv          NodeKind = "set_env"
	KindAppendEnvValue  NodeKind = "append_env_value"
	KindSetUser         NodeKind = "set_user"
)

// modusLabel is the image label applied to the final node of every tagged
// image build, recording the source literal that produced it.
const modusLabel = "com.modus-continens.literal"

// BuildNode represents one build instruction (spec §6): one line of a
// Dockerfile, or one node of a buildkit graph. Paths are always relative
// to the parent image's working directory unless absolute; a translator
// consuming this plan resolves them as needed.
//
// Only the fields relevant to Kind are populated; see the per-Kind
// comments below.
type BuildNode struct {
	Kind NodeKind `json:"kind"`

	// From / FromScratch
	ImageRef    string `json:"image_ref,omitempty"`
	DisplayName string `json:"display_name,omitempty"`

	// FromScratch only: unset at construction time, left for the build
	// driver collaborator to populate with a resolved scratch reference
	// once one exists (spec §3's BuildNode data model).
	ScratchRef *string `json:"scratch_ref,omitempty"`

	// Run, CopyFromImage, CopyFromLocal, SetWorkdir, SetEntrypoint, SetCmd,
	// SetLabel, SetEnv, AppendEnvValue, SetUser all carry Parent.
	Parent NodeId `json:"parent"`

	// Run
	Command        string            `json:"command,omitempty"`
	Cwd            string            `json:"cwd,omitempty"`
	AdditionalEnvs map[string]string `json:"additional_envs,omitempty"`

	// CopyFromImage / CopyFromLocal
	SrcImage NodeId `json:"src_image,omitempty"`
	SrcPath  string `json:"src_path,omitempty"`
	DstPath  string `json:"dst_path,omitempty"`

	// SetWorkdir
	NewWorkdir string `json:"new_workdir,omitempty"`

	// SetEntrypoint / SetCmd
	NewEntrypoint []string `json:"new_entrypoint,omitempty"`
	NewCmd        []string `json:"new_cmd,omitempty"`

	// SetLabel
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`

	// Merge
	Merge *MergeNode `json:"merge,omitempty"`

	// SetEnv / AppendEnvValue
	Key string `json:"key,omitempty"`

	// SetUser
	User string `json:"user,omitempty"`
}

// MergeOpKind discriminates which fields of a MergeOperation are
// meaningful.
type MergeOpKind string

const (
	MergeOpRun            MergeOpKind = "run"
	MergeOpCopyFromImage  MergeOpKind = "copy_from_image"
	MergeOpCopyFromLocal  MergeOpKind = "copy_from_local"
)

// MergeOperation is one step folded into a single MergeNode layer.
type MergeOperation struct {
	Kind MergeOpKind `json:"kind"`

	Command        string            `json:"command,omitempty"`
	Cwd            string            `json:"cwd,omitempty"`
	AdditionalEnvs map[string]string `json:"additional_envs,omitempty"`

	SrcImage NodeId `json:"src_image,omitempty"`
	SrcPath  string `json:"src_path,omitempty"`
	DstPath  string `json:"dst_path,omitempty"`
}

// MergeNode squashes a sequence of operations (runs and copies) into one
// resulting layer on top of Parent.
type MergeNode struct {
	Parent     NodeId           `json:"parent"`
	Operations []MergeOperation `json:"operations"`
}

// Output names one node as a queryable build target.
type Output struct {
	Node NodeId `json:"node"`
	// SourceLiteral records which query literal produced this output, for
	// diagnostics only — it is not part of the wire format, matching
	// imagegen.rs's `#[serde(skip)]` on the equivalent field.
	SourceLiteral string `json:"-"`
}

// BuildPlan is the full DAG: every node, each node's dependency edges (by
// NodeId, deduplicated), and the set of queried outputs.
type BuildPlan struct {
	Nodes        []BuildNode  `json:"nodes"`
	Dependencies [][]NodeId   `json:"dependencies"`
	Outputs      []Output     `json:"outputs"`
}

// NewBuildPlan returns an empty plan.
func NewBuildPlan() *BuildPlan {
	return &BuildPlan{}
}

// NewNode appends node to the plan with the given dependency edges
// (order-preserving deduplicated) and returns its id.
func (p *BuildPlan) NewNode(node BuildNode, deps []NodeId) NodeId {
	id := len(p.Nodes)
	p.Nodes = append(p.Nodes, node)
	p.Dependencies = append(p.Dependencies, dedupeIds(deps))
	return id
}

func dedupeIds(ids []NodeId) []NodeId {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[NodeId]bool, len(ids))
	out := make([]NodeId, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// TopologicalOrder returns the plan's nodes ordered so that every node's
// dependencies precede it, reachable from Outputs.
func (p *BuildPlan) TopologicalOrder() []NodeId {
	order := make([]NodeId, 0, len(p.Nodes))
	seen := make([]bool, len(p.Nodes))
	var dfs func(NodeId)
	dfs = func(n NodeId) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, dep := range p.Dependencies[n] {
			dfs(dep)
		}
		order = append(order, n)
	}
	for _, out := range p.Outputs {
		dfs(out.Node)
	}
	return order
}
