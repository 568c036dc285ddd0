package telemetry

import (
	"math"
	"testing"

	"github.com/PhantasticUniverse/genesis/evolve"
	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
	"github.com/PhantasticUniverse/genesis/phylo"
)

func scoredIndividual(id string, overall, novelty, lifespan, mass, entropy float64) *evolve.Individual {
	return &evolve.Individual{
		ID:      id,
		Genome:  genome.Default(),
		Fitness: &fitness.Score{Overall: overall},
		Behavior: &fitness.Behavior{
			AvgMass:    mass,
			AvgEntropy: entropy,
			Lifespan:   lifespan,
		},
		Novelty: novelty,
	}
}

func TestCollectorFlush(t *testing.T) {
	best := scoredIndividual("g3", 0.6, 2.0, 150, 0.30, 0.9)
	state := evolve.State{
		Generation:  3,
		BestFitness: 0.9,
		Best:        best,
		Scored: []*evolve.Individual{
			scoredIndividual("g1", 0.2, 1.0, 50, 0.10, 0.5),
			scoredIndividual("g2", 0.4, 3.0, 100, 0.20, 0.7),
			best,
		},
		Archive:   []*evolve.Individual{{}, {}},
		TreeStats: phylo.TreeStats{TotalNodes: 25, Generations: 3},
	}

	stats := NewCollector().Flush(state)

	if stats.Generation != 3 {
		t.Errorf("Generation = %d, want 3", stats.Generation)
	}
	if stats.ElapsedMs < 0 {
		t.Errorf("ElapsedMs = %d, want >= 0", stats.ElapsedMs)
	}
	if stats.BestFitness != 0.9 {
		t.Errorf("BestFitness = %v, want 0.9", stats.BestFitness)
	}
	if stats.ArchiveSize != 2 {
		t.Errorf("ArchiveSize = %d, want 2", stats.ArchiveSize)
	}
	if stats.TreeNodes != 25 || stats.TreeMaxGen != 3 {
		t.Errorf("tree columns = (%d, %d), want (25, 3)", stats.TreeNodes, stats.TreeMaxGen)
	}
	if want := genome.Default().Encode(); stats.BestGenome != want {
		t.Errorf("BestGenome = %q, want %q", stats.BestGenome, want)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"fitness mean", stats.FitnessMean, 0.4},
		{"fitness p50", stats.FitnessP50, 0.4},
		{"gen best", stats.GenBest, 0.6},
		{"novelty mean", stats.NoveltyMean, 2.0},
		{"novelty max", stats.NoveltyMax, 3.0},
		{"mean lifespan", stats.MeanLifespan, 100},
		{"max lifespan", stats.MaxLifespan, 150},
		{"mean mass", stats.MeanMass, 0.2},
		{"mean entropy", stats.MeanEntropy, 0.7},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCollectorFlushSkipsUnevaluated(t *testing.T) {
	state := evolve.State{
		Generation: 1,
		Scored: []*evolve.Individual{
			{ID: "g1", Genome: genome.Default()}, // never evaluated
			scoredIndividual("g2", 0.5, 1.0, 80, 0.2, 0.6),
		},
	}

	stats := NewCollector().Flush(state)

	if math.Abs(stats.FitnessMean-0.5) > 0.001 {
		t.Errorf("FitnessMean = %v, want 0.5 from the one evaluated member", stats.FitnessMean)
	}
	if math.Abs(stats.MeanLifespan-80) > 0.001 {
		t.Errorf("MeanLifespan = %v, want 80", stats.MeanLifespan)
	}
}

func TestCollectorFlushEmptyGeneration(t *testing.T) {
	state := evolve.State{Generation: 0, BestFitness: 0}

	stats := NewCollector().Flush(state)

	if stats.Generation != 0 {
		t.Errorf("Generation = %d, want 0", stats.Generation)
	}
	if stats.FitnessMean != 0 || stats.GenBest != 0 || stats.NoveltyMax != 0 {
		t.Errorf("empty generation produced non-zero aggregates: %+v", stats)
	}
	if stats.BestGenome != "" {
		t.Errorf("BestGenome = %q, want empty without a best individual", stats.BestGenome)
	}
}
