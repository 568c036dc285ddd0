package evolve

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
)

// stubEvaluator scores genomes from their parameters alone, with no
// simulation. Pure and safe for any worker count.
type stubEvaluator struct{}

func (stubEvaluator) Evaluate(_ context.Context, g genome.Genome, _ int64) (fitness.Score, fitness.Behavior, error) {
	return fitness.Score{Overall: g.M},
		fitness.Behavior{AvgMass: g.M, AvgEntropy: g.S, Lifespan: float64(g.R)},
		nil
}

func testConfig() Config {
	return Config{
		PopulationSize:   12,
		MutationRate:     0.2,
		CrossoverRate:    0.4,
		EliteCount:       2,
		TournamentSize:   3,
		NoveltyWeight:    0.3,
		NoveltyK:         5,
		ArchiveCap:       6,
		ArchiveThreshold: 0,
	}
}

func newTestEngine(t *testing.T, cfg Config, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, stubEvaluator{}, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return e
}

func TestEnginePopulationSizeInvariant(t *testing.T) {
	e := newTestEngine(t, testConfig(), 1)
	ctx := context.Background()

	for step := 0; step < 4; step++ {
		if err := e.Step(ctx); err != nil {
			t.Fatalf("Step %d error: %v", step, err)
		}
		if got := len(e.Snapshot().Population); got != 12 {
			t.Fatalf("population after step %d = %d, want 12", step, got)
		}
	}
}

func TestEngineArchiveCapInvariant(t *testing.T) {
	e := newTestEngine(t, testConfig(), 2)
	ctx := context.Background()

	for step := 0; step < 5; step++ {
		if err := e.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
		if got := len(e.Snapshot().Archive); got > 6 {
			t.Fatalf("archive after step %d = %d, want <= 6", step, got)
		}
	}
}

func TestEngineDeterminism(t *testing.T) {
	ctx := context.Background()
	a := newTestEngine(t, testConfig(), 99)
	b := newTestEngine(t, testConfig(), 99)

	for step := 0; step < 3; step++ {
		if err := a.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
		if err := b.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	if sa.BestFitness != sb.BestFitness {
		t.Errorf("best fitness diverged: %v vs %v", sa.BestFitness, sb.BestFitness)
	}
	for i := range sa.Population {
		pa, pb := sa.Population[i], sb.Population[i]
		if pa.ID != pb.ID || pa.Genome.Encode() != pb.Genome.Encode() {
			t.Fatalf("population[%d] diverged: %s/%s vs %s/%s",
				i, pa.ID, pa.Genome.Encode(), pb.ID, pb.Genome.Encode())
		}
	}

	ta, err := a.ExportTree()
	if err != nil {
		t.Fatalf("ExportTree error: %v", err)
	}
	tb, err := b.ExportTree()
	if err != nil {
		t.Fatalf("ExportTree error: %v", err)
	}
	if !bytes.Equal(ta, tb) {
		t.Error("phylogeny exports diverged for identical seeds")
	}
}

func TestEngineWorkerCountDoesNotChangeOutcome(t *testing.T) {
	ctx := context.Background()

	serial := testConfig()
	serial.EvalWorkers = 1
	parallel := testConfig()
	parallel.EvalWorkers = 4

	a := newTestEngine(t, serial, 5)
	b := newTestEngine(t, parallel, 5)
	for step := 0; step < 3; step++ {
		if err := a.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
		if err := b.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Population {
		if sa.Population[i].Genome.Encode() != sb.Population[i].Genome.Encode() {
			t.Fatalf("population[%d] differs between 1 and 4 workers", i)
		}
	}
}

func TestEngineMirrorsPhylogeny(t *testing.T) {
	cfg := testConfig()
	e := newTestEngine(t, cfg, 3)
	if err := e.Step(context.Background()); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	stats := e.Snapshot().TreeStats
	wantNodes := cfg.PopulationSize + (cfg.PopulationSize - cfg.EliteCount)
	if stats.TotalNodes != wantNodes {
		t.Errorf("totalNodes = %d, want %d (roots plus children)", stats.TotalNodes, wantNodes)
	}
	if stats.AliveCount != cfg.PopulationSize {
		t.Errorf("aliveCount = %d, want %d (exactly the new population)", stats.AliveCount, cfg.PopulationSize)
	}
	if stats.Generations != 1 {
		t.Errorf("generations = %d, want 1", stats.Generations)
	}
	if stats.MaxFitness <= 0 {
		t.Error("maxFitness not raised by evaluated generation")
	}
}

func TestEngineGenerationLabels(t *testing.T) {
	e := newTestEngine(t, testConfig(), 4)
	if err := e.Step(context.Background()); err != nil {
		t.Fatalf("Step error: %v", err)
	}

	for _, ind := range e.Snapshot().Population {
		if len(ind.ParentIDs) == 0 {
			// Carried-over elite, original generation retained.
			if ind.Generation != 0 {
				t.Errorf("elite %s generation = %d, want 0", ind.ID, ind.Generation)
			}
			if !ind.Evaluated() {
				t.Errorf("elite %s lost its evaluation", ind.ID)
			}
		} else {
			if ind.Generation != 1 {
				t.Errorf("child %s generation = %d, want 1", ind.ID, ind.Generation)
			}
			if ind.Evaluated() {
				t.Errorf("child %s born pre-evaluated", ind.ID)
			}
			if n := len(ind.ParentIDs); n != 1 && n != 2 {
				t.Errorf("child %s has %d parents", ind.ID, n)
			}
		}
	}
}

func TestEngineBestFitnessMonotonic(t *testing.T) {
	e := newTestEngine(t, testConfig(), 6)
	ctx := context.Background()

	prev := 0.0
	for step := 0; step < 5; step++ {
		if err := e.Step(ctx); err != nil {
			t.Fatalf("Step error: %v", err)
		}
		best := e.BestFitness()
		if best < prev {
			t.Fatalf("best fitness fell from %v to %v", prev, best)
		}
		prev = best
	}
	if e.Snapshot().Best == nil {
		t.Error("no best individual recorded after evaluated generations")
	}
}

func TestEngineRunStopsAtTarget(t *testing.T) {
	cfg := testConfig()
	cfg.TargetFitness = 0.01 // stub overall is g.M >= 0.05, first generation reaches it
	e := newTestEngine(t, cfg, 7)

	var calls int
	if err := e.Run(context.Background(), 50, func(State) { calls++ }); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if e.Generation() != 1 || calls != 1 {
		t.Errorf("ran %d generations (%d callbacks), want 1", e.Generation(), calls)
	}
}

func TestEngineCancelledContext(t *testing.T) {
	e := newTestEngine(t, testConfig(), 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Step(ctx); err == nil {
		t.Fatal("Step with cancelled context succeeded, want error")
	}
	if e.Generation() != 0 {
		t.Errorf("generation = %d after aborted step, want 0", e.Generation())
	}
	if got := e.Snapshot().TreeStats.TotalNodes; got != testConfig().PopulationSize {
		t.Errorf("tree grew to %d nodes on aborted step, want %d", got, testConfig().PopulationSize)
	}
}

func TestEngineConfigValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := testConfig()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative mutation rate", func(c *Config) { c.MutationRate = -0.1 }},
		{"mutation rate above one", func(c *Config) { c.MutationRate = 1.1 }},
		{"crossover rate above one", func(c *Config) { c.CrossoverRate = 2 }},
		{"negative elite count", func(c *Config) { c.EliteCount = -1 }},
		{"elite count above population", func(c *Config) { c.EliteCount = 13 }},
		{"zero tournament", func(c *Config) { c.TournamentSize = 0 }},
		{"novelty weight above one", func(c *Config) { c.NoveltyWeight = 1.5 }},
		{"zero novelty k", func(c *Config) { c.NoveltyK = 0 }},
		{"negative archive cap", func(c *Config) { c.ArchiveCap = -1 }},
		{"negative threshold", func(c *Config) { c.ArchiveThreshold = -0.1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := NewEngine(cfg, stubEvaluator{}, rng); err == nil {
				t.Error("NewEngine accepted invalid config")
			}
		})
	}

	if _, err := NewEngine(base, nil, rng); err == nil {
		t.Error("NewEngine accepted nil evaluator")
	}
	if _, err := NewEngine(base, stubEvaluator{}, nil); err == nil {
		t.Error("NewEngine accepted nil random source")
	}
}
