package store

import (
	"context"
	"testing"

	"github.com/PhantasticUniverse/genesis/phylo"
	"github.com/PhantasticUniverse/genesis/telemetry"
)

const storedGenome = "R=13;T=10;m=0.15;s=0.017;b=1;kn=1;gn=1"

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := NewRun(42, "populationSize: 12\n")
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded.Seed != 42 || loaded.Config != run.Config {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	_, ok, err = store.GetRun(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing run: %v", err)
	}
	if ok {
		t.Fatal("expected missing run to report not found")
	}
}

func TestMemoryStoreGenerationsOrderedAndUpserted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, gen := range []int{2, 0, 1} {
		stats := telemetry.GenerationStats{Generation: gen, BestFitness: float64(gen)}
		if err := store.SaveGeneration(ctx, "run-1", stats); err != nil {
			t.Fatalf("save generation %d: %v", gen, err)
		}
	}
	// Re-saving a generation replaces its row
	if err := store.SaveGeneration(ctx, "run-1", telemetry.GenerationStats{Generation: 1, BestFitness: 0.9}); err != nil {
		t.Fatalf("re-save generation: %v", err)
	}

	rows, ok, err := store.GetGenerations(ctx, "run-1")
	if err != nil {
		t.Fatalf("get generations: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted generations")
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, row := range rows {
		if row.Generation != i {
			t.Fatalf("rows out of order: %+v", rows)
		}
	}
	if rows[1].BestFitness != 0.9 {
		t.Fatalf("re-saved row not replaced: %+v", rows[1])
	}
}

func TestMemoryStoreHallOfFameRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := []telemetry.HallEntry{
		{ID: "g7", Genome: storedGenome, Fitness: 0.8, Generation: 3},
	}
	if err := store.SaveHallOfFame(ctx, "run-1", input); err != nil {
		t.Fatalf("save hall: %v", err)
	}

	output, ok, err := store.GetHallOfFame(ctx, "run-1")
	if err != nil {
		t.Fatalf("get hall: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted hall")
	}
	if len(output) != 1 || output[0].ID != "g7" {
		t.Fatalf("unexpected hall: %+v", output)
	}
}

func TestMemoryStoreTreeIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	tree := phylo.NewTree()
	tree.AddNode("g1", storedGenome, 0, nil, phylo.EdgeMutation)
	tree.AddNode("g2", storedGenome, 1, []string{"g1"}, phylo.EdgeMutation)

	if err := store.SaveTree(ctx, "run-1", tree); err != nil {
		t.Fatalf("save tree: %v", err)
	}

	// Growing the live tree must not affect the stored one
	tree.AddNode("g3", storedGenome, 2, []string{"g2"}, phylo.EdgeMutation)

	loaded, ok, err := store.GetTree(ctx, "run-1")
	if err != nil {
		t.Fatalf("get tree: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted tree")
	}
	if loaded.TotalNodes != 2 {
		t.Fatalf("stored tree has %d nodes, want the 2 saved", loaded.TotalNodes)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveRun(ctx, NewRun(1, "")); err == nil {
		t.Fatal("expected error on save before Init")
	}
	if _, _, err := store.GetRun(ctx, "run-1"); err == nil {
		t.Fatal("expected error on get before Init")
	}
}
