// Package phylo records the complete ancestry of every individual an
// evolutionary run produces. The tree is append-only: nodes are inserted
// once at birth and only their evaluation results and liveness flags are
// updated afterward, so lineage queries stay valid for individuals long
// after they leave the live population or archive.
package phylo

import (
	"github.com/PhantasticUniverse/genesis/fitness"
)

// EdgeKind labels how a child was produced from a parent.
type EdgeKind string

const (
	EdgeMutation  EdgeKind = "mutation"
	EdgeCrossover EdgeKind = "crossover"
)

// Node is one individual's permanent record. Fitness, Behavior and
// Novelty hold the tracker's own copies, set via UpdateNode; Behavior is
// nil until the individual has been evaluated.
type Node struct {
	ID         string            `json:"id"`
	Genome     string            `json:"genome"`
	Generation int               `json:"generation"`
	ParentIDs  []string          `json:"parentIds,omitempty"`
	ChildIDs   []string          `json:"childIds,omitempty"`
	Fitness    float64           `json:"fitness"`
	Behavior   *fitness.Behavior `json:"behavior,omitempty"`
	Novelty    float64           `json:"novelty"`
	Alive      bool              `json:"alive"`
	Archived   bool              `json:"archived"`

	// Layout coordinates, set by Layout. Zero until then.
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge records one parent-child reproduction event.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// Tree is the append-only lineage graph. Nodes are never removed;
// TotalNodes increases on every insert and never decreases, even after
// MarkDead sweeps.
type Tree struct {
	Nodes         map[string]*Node `json:"nodes"`
	Edges         []Edge           `json:"edges"`
	RootIDs       []string         `json:"rootIds"`
	MaxGeneration int              `json:"maxGeneration"`
	MaxFitness    float64          `json:"maxFitness"`
	TotalNodes    int              `json:"totalNodes"`
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Nodes: make(map[string]*Node)}
}

// AddNode inserts a new node at birth. A node with no parents is a root.
// One edge is appended per parent and the child is registered in each
// parent's ChildIDs. Callers must not reuse ids; inserting a duplicate id
// leaves the tree inconsistent and is not detected here.
func (t *Tree) AddNode(id, genome string, generation int, parentIDs []string, kind EdgeKind) {
	node := &Node{
		ID:         id,
		Genome:     genome,
		Generation: generation,
		ParentIDs:  append([]string(nil), parentIDs...),
		Alive:      true,
	}
	t.Nodes[id] = node

	if len(parentIDs) == 0 {
		t.RootIDs = append(t.RootIDs, id)
	}
	for _, pid := range parentIDs {
		t.Edges = append(t.Edges, Edge{Source: pid, Target: id, Kind: kind})
		if parent, ok := t.Nodes[pid]; ok {
			parent.ChildIDs = append(parent.ChildIDs, id)
		}
	}

	if generation > t.MaxGeneration {
		t.MaxGeneration = generation
	}
	t.TotalNodes++
}

// UpdateNode stores evaluation results on an existing node and raises the
// tree-wide fitness high-water mark. Unknown ids are ignored: lineage
// consumers may hold ids the caller has already stopped tracking.
func (t *Tree) UpdateNode(id string, fit float64, behavior fitness.Behavior, novelty float64) {
	node, ok := t.Nodes[id]
	if !ok {
		return
	}
	node.Fitness = fit
	b := behavior
	node.Behavior = &b
	node.Novelty = novelty
	if fit > t.MaxFitness {
		t.MaxFitness = fit
	}
}

// MarkDead sweeps every node in the tree and sets Alive to whether its id
// appears in aliveIDs. This is a full sweep, not an incremental update:
// nodes from any earlier generation that are no longer listed go dead too.
func (t *Tree) MarkDead(aliveIDs []string) {
	alive := make(map[string]bool, len(aliveIDs))
	for _, id := range aliveIDs {
		alive[id] = true
	}
	for id, node := range t.Nodes {
		node.Alive = alive[id]
	}
}

// MarkArchived flags a node as having entered the novelty archive. The
// flag is never cleared; eviction from the live archive does not erase the
// fact that the individual was once archived. Unknown ids are ignored.
func (t *Tree) MarkArchived(id string) {
	if node, ok := t.Nodes[id]; ok {
		node.Archived = true
	}
}
