package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
	"github.com/PhantasticUniverse/genesis/lenia"
)

// FitnessEvaluator runs headless simulations and computes the CMA-ES
// objective. The optimizer minimizes, so the objective is the negated
// mean overall fitness across the evaluation seeds.
type FitnessEvaluator struct {
	params      *ParamVector
	width       int
	height      int
	steps       int
	sampleEvery int
	seeds       []int64
	scorer      *fitness.Evaluator

	// Best run tracking
	mu            sync.Mutex
	bestObjective float64
	bestGenome    genome.Genome
	bestScore     fitness.Score
	lastScore     fitness.Score // score from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, width, height, steps, sampleEvery int, seeds []int64, scorer *fitness.Evaluator) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		width:         width,
		height:        height,
		steps:         steps,
		sampleEvery:   sampleEvery,
		seeds:         seeds,
		scorer:        scorer,
		bestObjective: math.Inf(1),
	}
}

// BestGenome returns the genome from the best evaluation so far.
func (fe *FitnessEvaluator) BestGenome() (genome.Genome, fitness.Score, bool) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestGenome, fe.bestScore, !math.IsInf(fe.bestObjective, 1)
}

// LastScore returns the mean score from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() fitness.Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes the objective for a parameter vector (lower =
// better). All seeds share the genome, so they run in parallel; seeds
// whose simulation cannot be built score zero.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	g := fe.params.ToGenome(x)

	results := make([]fitness.Score, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(g, s)
		}(i, seed)
	}
	wg.Wait()

	// Aggregate the mean score across seeds
	var mean fitness.Score
	for _, r := range results {
		mean.Survival += r.Survival
		mean.Stability += r.Stability
		mean.Complexity += r.Complexity
		mean.Symmetry += r.Symmetry
		mean.Movement += r.Movement
		mean.Overall += r.Overall
	}
	n := float64(len(fe.seeds))
	mean.Survival /= n
	mean.Stability /= n
	mean.Complexity /= n
	mean.Symmetry /= n
	mean.Movement /= n
	mean.Overall /= n

	objective := -mean.Overall

	fe.mu.Lock()
	if objective < fe.bestObjective {
		fe.bestObjective = objective
		fe.bestGenome = g.Clone()
		fe.bestScore = mean
	}
	fe.lastScore = mean
	fe.mu.Unlock()

	return objective
}

// runSimulation executes a single headless run and scores it. A genome
// whose kernel does not fit the grid counts as a zero score rather
// than aborting the optimization.
func (fe *FitnessEvaluator) runSimulation(g genome.Genome, seed int64) fitness.Score {
	sim, err := lenia.NewSimulator(g, fe.width, fe.height)
	if err != nil {
		return fitness.Score{}
	}
	sim.SeedPatch(rand.New(rand.NewSource(seed)))
	tr := sim.Run(fe.steps, fe.sampleEvery)

	score, _, err := fe.scorer.Evaluate(tr)
	if err != nil {
		return fitness.Score{}
	}
	return score
}
