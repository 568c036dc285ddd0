package phylo

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/PhantasticUniverse/genesis/fitness"
)

func TestExportImportRoundTrip(t *testing.T) {
	tree := NewTree()
	tree.AddNode("root", testGenome, 0, nil, EdgeMutation)
	tree.AddNode("child", testGenome, 1, []string{"root"}, EdgeMutation)
	tree.UpdateNode("root", 0.6, fitness.Behavior{AvgMass: 0.4, Lifespan: 50}, 0.2)
	tree.MarkArchived("root")
	tree.MarkDead([]string{"child"})
	tree.Layout()

	data, err := tree.Export()
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}

	got, err := Import(data)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}

	if len(got.Nodes) != len(tree.Nodes) {
		t.Errorf("nodes = %d, want %d", len(got.Nodes), len(tree.Nodes))
	}
	if len(got.Edges) != len(tree.Edges) {
		t.Errorf("edges = %d, want %d", len(got.Edges), len(tree.Edges))
	}
	if len(got.RootIDs) != 1 || got.RootIDs[0] != "root" {
		t.Errorf("rootIDs = %v, want [root]", got.RootIDs)
	}
	if got.MaxGeneration != tree.MaxGeneration || got.MaxFitness != tree.MaxFitness || got.TotalNodes != tree.TotalNodes {
		t.Errorf("counters = (%d,%v,%d), want (%d,%v,%d)",
			got.MaxGeneration, got.MaxFitness, got.TotalNodes,
			tree.MaxGeneration, tree.MaxFitness, tree.TotalNodes)
	}

	root := got.Nodes["root"]
	if root.Fitness != 0.6 || root.Novelty != 0.2 || !root.Archived || root.Alive {
		t.Errorf("root = %+v, want fitness 0.6 novelty 0.2 archived dead", root)
	}
	if root.Behavior == nil || root.Behavior.Lifespan != 50 {
		t.Errorf("root behavior = %+v, want lifespan 50", root.Behavior)
	}
	if root.Y != tree.Nodes["root"].Y || root.X != tree.Nodes["root"].X {
		t.Error("layout coordinates lost in round trip")
	}

	child := got.Nodes["child"]
	if !child.Alive || child.Behavior != nil {
		t.Errorf("child = %+v, want alive and unevaluated", child)
	}
}

func TestExportEmptyTree(t *testing.T) {
	data, err := NewTree().Export()
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	got, err := Import(data)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if len(got.Nodes) != 0 || got.TotalNodes != 0 {
		t.Errorf("round-tripped empty tree = %+v", got)
	}
}

func TestImportRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", "{", "unmarshal"},
		{"wrong version", `{"version":99,"nodes":{}}`, "version"},
		{
			"edge to unknown node",
			`{"version":1,"nodes":{"a":{"id":"a"}},"edges":[{"source":"a","target":"b","kind":"mutation"}]}`,
			"unknown node",
		},
		{
			"node key mismatch",
			`{"version":1,"nodes":{"a":{"id":"zzz"}}}`,
			"does not match",
		},
		{
			"root without node",
			`{"version":1,"nodes":{},"rootIds":["missing"]}`,
			"no node",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Import([]byte(tc.doc))
			if err == nil {
				t.Fatal("Import succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	tree := NewTree()
	tree.AddNode("a", testGenome, 0, nil, EdgeMutation)

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := tree.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.TotalNodes != 1 || got.Nodes["a"] == nil {
		t.Errorf("loaded tree = %+v, want one node", got)
	}
}
