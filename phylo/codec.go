package phylo

import (
	"encoding/json"
	"fmt"
	"os"
)

// TreeVersion is incremented when the export format changes.
const TreeVersion = 1

type treeDocument struct {
	Version int `json:"version"`
	*Tree
}

// Export serializes the tree as a self-contained JSON document. Every
// field round-trips through Import, including flags, layout coordinates
// and the full edge list.
func (t *Tree) Export() ([]byte, error) {
	data, err := json.MarshalIndent(treeDocument{Version: TreeVersion, Tree: t}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tree: %w", err)
	}
	return data, nil
}

// Import parses a document produced by Export. It rejects unknown format
// versions and documents whose edges or node keys are inconsistent;
// malformed input is never silently repaired.
func Import(data []byte) (*Tree, error) {
	doc := treeDocument{Tree: NewTree()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal tree: %w", err)
	}
	if doc.Version != TreeVersion {
		return nil, fmt.Errorf("unsupported tree version %d (want %d)", doc.Version, TreeVersion)
	}

	tree := doc.Tree
	if tree.Nodes == nil {
		tree.Nodes = make(map[string]*Node)
	}
	for id, node := range tree.Nodes {
		if node == nil || node.ID != id {
			return nil, fmt.Errorf("node key %q does not match its record", id)
		}
	}
	for _, edge := range tree.Edges {
		if _, ok := tree.Nodes[edge.Source]; !ok {
			return nil, fmt.Errorf("edge references unknown node %q", edge.Source)
		}
		if _, ok := tree.Nodes[edge.Target]; !ok {
			return nil, fmt.Errorf("edge references unknown node %q", edge.Target)
		}
	}
	for _, id := range tree.RootIDs {
		if _, ok := tree.Nodes[id]; !ok {
			return nil, fmt.Errorf("root id %q has no node", id)
		}
	}
	return tree, nil
}

// Save writes the exported tree to path.
func (t *Tree) Save(path string) error {
	data, err := t.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	return nil
}

// Load reads and imports a tree document from path.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return Import(data)
}
