package evolve

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
	"github.com/PhantasticUniverse/genesis/lenia"
)

// Evaluator scores a genome by simulating it. Implementations must be
// safe for concurrent use; the engine fans evaluation out across a worker
// pool. The seed fixes the initial field so a genome always replays the
// same trajectory.
type Evaluator interface {
	Evaluate(ctx context.Context, g genome.Genome, seed int64) (fitness.Score, fitness.Behavior, error)
}

// SimEvaluator runs a headless toroidal simulation and scores the
// resulting trajectory.
type SimEvaluator struct {
	Width       int
	Height      int
	Steps       int
	SampleEvery int
	Scorer      *fitness.Evaluator
}

// NewSimEvaluator returns an evaluator with the standard scorer.
func NewSimEvaluator(width, height, steps, sampleEvery int) *SimEvaluator {
	return &SimEvaluator{
		Width:       width,
		Height:      height,
		Steps:       steps,
		SampleEvery: sampleEvery,
		Scorer:      fitness.NewEvaluator(),
	}
}

// Evaluate seeds a fresh field from seed, runs the trajectory and scores
// it. A genome whose kernel cannot be built for this grid scores zero
// rather than failing the whole generation; selection will discard it.
func (se *SimEvaluator) Evaluate(ctx context.Context, g genome.Genome, seed int64) (fitness.Score, fitness.Behavior, error) {
	if err := ctx.Err(); err != nil {
		return fitness.Score{}, fitness.Behavior{}, err
	}

	sim, err := lenia.NewSimulator(g, se.Width, se.Height)
	if err != nil {
		slog.Debug("genome not simulable, scoring zero", "genome", g.Encode(), "error", err)
		return fitness.Score{}, fitness.Behavior{}, nil
	}
	sim.SeedPatch(rand.New(rand.NewSource(seed)))
	tr := sim.Run(se.Steps, se.SampleEvery)
	return se.Scorer.Evaluate(tr)
}

type evalJob struct {
	idx  int
	g    genome.Genome
	seed int64
}

type evalResult struct {
	idx      int
	score    fitness.Score
	behavior fitness.Behavior
	err      error
}

// evaluateBatch runs all jobs on a bounded worker pool and returns the
// results ordered by job index, so the outcome is independent of worker
// scheduling. The first error by job order is returned, with no partial
// results.
func evaluateBatch(ctx context.Context, eval Evaluator, jobs []evalJob, workers int) ([]evalResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	jobCh := make(chan evalJob)
	resCh := make(chan evalResult, len(jobs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if err := ctx.Err(); err != nil {
					resCh <- evalResult{idx: j.idx, err: err}
					continue
				}
				score, behavior, err := eval.Evaluate(ctx, j.g, j.seed)
				resCh <- evalResult{idx: j.idx, score: score, behavior: behavior, err: err}
			}
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()
	close(resCh)

	out := make([]evalResult, len(jobs))
	for r := range resCh {
		out[r.idx] = r
	}
	for _, r := range out {
		if r.err != nil {
			return nil, r.err
		}
	}
	return out, nil
}
