package evolve

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/PhantasticUniverse/genesis/genome"
	"github.com/PhantasticUniverse/genesis/phylo"
)

// Config holds every knob the genetic algorithm needs. All fields are
// required; NewEngine rejects values outside their documented domains.
type Config struct {
	PopulationSize   int
	MutationRate     float64 // per-field probability, [0,1]
	CrossoverRate    float64 // probability a child has two parents, [0,1]
	EliteCount       int     // individuals carried over unchanged
	TournamentSize   int
	NoveltyWeight    float64 // blend of novelty into the ranking score, [0,1]
	NoveltyK         int     // nearest neighbors for novelty
	ArchiveCap       int     // 0 disables the archive
	ArchiveThreshold float64 // minimum novelty for admission
	EvalWorkers      int     // parallel evaluations; <=0 means 1
	TargetFitness    float64 // stop Run early when best reaches this; 0 disables
	Ranges           genome.Ranges
}

// State is a point-in-time copy of engine progress. All individuals are
// deep copies, safe to hold while the engine keeps running. Population is
// the upcoming generation (children not yet evaluated); Scored is the
// fully evaluated population of the last completed generation, which is
// what telemetry should aggregate over.
type State struct {
	Generation  int
	Population  []*Individual
	Scored      []*Individual
	Archive     []*Individual
	BestFitness float64
	Best        *Individual
	TreeStats   phylo.TreeStats
}

// Engine drives the generational loop. Step and Run must be called from
// one goroutine; Snapshot, BestFitness, Generation and ExportTree may be
// called concurrently with a running step.
type Engine struct {
	cfg    Config
	eval   Evaluator
	rng    *rand.Rand
	ids    *IDGenerator
	mutate genome.MutateParams

	mu          sync.RWMutex
	pop         []*Individual
	scored      []*Individual
	archive     *Archive
	tree        *phylo.Tree
	gen         int
	best        *Individual
	bestFitness float64
}

// NewEngine validates the configuration and seeds a generation-0
// population of random genomes, registering each as a phylogeny root.
func NewEngine(cfg Config, eval Evaluator, rng *rand.Rand) (*Engine, error) {
	if eval == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0,1]")
	}
	if cfg.CrossoverRate < 0 || cfg.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0,1]")
	}
	if cfg.EliteCount < 0 || cfg.EliteCount > cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [0, population size]")
	}
	if cfg.TournamentSize < 1 {
		return nil, fmt.Errorf("tournament size must be >= 1")
	}
	if cfg.NoveltyWeight < 0 || cfg.NoveltyWeight > 1 {
		return nil, fmt.Errorf("novelty weight must be in [0,1]")
	}
	if cfg.NoveltyK < 1 {
		return nil, fmt.Errorf("novelty k must be >= 1")
	}
	if cfg.ArchiveCap < 0 {
		return nil, fmt.Errorf("archive cap must be >= 0")
	}
	if cfg.ArchiveThreshold < 0 {
		return nil, fmt.Errorf("archive threshold must be >= 0")
	}
	if cfg.EvalWorkers <= 0 {
		cfg.EvalWorkers = 1
	}
	if cfg.Ranges == (genome.Ranges{}) {
		cfg.Ranges = genome.DefaultRanges()
	}

	e := &Engine{
		cfg:     cfg,
		eval:    eval,
		rng:     rng,
		ids:     &IDGenerator{},
		mutate:  genome.DefaultMutateParams(cfg.MutationRate),
		archive: NewArchive(cfg.ArchiveCap, cfg.ArchiveThreshold),
		tree:    phylo.NewTree(),
	}

	e.pop = make([]*Individual, cfg.PopulationSize)
	for i := range e.pop {
		g := genome.Random(cfg.Ranges, rng)
		ind := &Individual{ID: e.ids.Next(), Genome: g, Generation: 0}
		e.pop[i] = ind
		e.tree.AddNode(ind.ID, g.Encode(), 0, nil, phylo.EdgeMutation)
	}
	return e, nil
}

// Step runs one full generation: evaluate, novelty, archive update,
// reproduction and phylogeny mirroring. The mutation of shared state
// happens in one locked section at the end, so a cancelled context aborts
// cleanly between phases and never commits a partial generation.
func (e *Engine) Step(ctx context.Context) error {
	if err := e.evaluate(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	UpdateNovelty(e.pop, e.archive.Members(), e.cfg.NoveltyK)
	e.archive.Update(e.pop)

	next, children, err := e.reproduce()
	if err != nil {
		return err
	}

	for _, c := range children {
		kind := phylo.EdgeMutation
		if len(c.ParentIDs) == 2 {
			kind = phylo.EdgeCrossover
		}
		e.tree.AddNode(c.ID, c.Genome.Encode(), c.Generation, c.ParentIDs, kind)
	}
	for _, ind := range e.pop {
		if ind.Evaluated() {
			e.tree.UpdateNode(ind.ID, ind.Fitness.Overall, *ind.Behavior, ind.Novelty)
		}
	}
	alive := make([]string, len(next))
	for i, ind := range next {
		alive[i] = ind.ID
	}
	e.tree.MarkDead(alive)
	for _, ind := range e.archive.Members() {
		e.tree.MarkArchived(ind.ID)
	}

	for _, ind := range e.pop {
		if ind.Evaluated() && (e.best == nil || ind.Fitness.Overall > e.bestFitness) {
			e.best = ind.Clone()
			e.bestFitness = ind.Fitness.Overall
		}
	}

	e.scored = e.pop
	e.pop = next
	e.gen++
	return nil
}

// Run executes up to the given number of generations, invoking
// onGeneration (if non-nil) with a snapshot after each one. It returns
// early once TargetFitness is reached or the context is cancelled.
func (e *Engine) Run(ctx context.Context, generations int, onGeneration func(State)) error {
	for i := 0; i < generations; i++ {
		if err := e.Step(ctx); err != nil {
			return err
		}
		if onGeneration != nil {
			onGeneration(e.Snapshot())
		}
		if e.cfg.TargetFitness > 0 && e.BestFitness() >= e.cfg.TargetFitness {
			return nil
		}
	}
	return nil
}

// evaluate scores every unevaluated population member. Seeds are drawn
// from the engine generator in population order before the fan-out and
// results are applied in that same order, so worker count and scheduling
// never change the outcome. Nothing is applied if any evaluation failed.
func (e *Engine) evaluate(ctx context.Context) error {
	e.mu.RLock()
	var idxs []int
	for i, ind := range e.pop {
		if !ind.Evaluated() {
			idxs = append(idxs, i)
		}
	}
	jobs := make([]evalJob, len(idxs))
	for i, pi := range idxs {
		jobs[i] = evalJob{idx: i, g: e.pop[pi].Genome.Clone(), seed: e.rng.Int63()}
	}
	e.mu.RUnlock()

	results, err := evaluateBatch(ctx, e.eval, jobs, e.cfg.EvalWorkers)
	if err != nil {
		return err
	}

	e.mu.Lock()
	for i, pi := range idxs {
		score := results[i].score
		behavior := results[i].behavior
		e.pop[pi].Fitness = &score
		e.pop[pi].Behavior = &behavior
	}
	e.mu.Unlock()
	return nil
}

// combined is the ranking score blending fitness and novelty.
func (e *Engine) combined(ind *Individual) float64 {
	return ind.overall()*(1-e.cfg.NoveltyWeight) + ind.Novelty*e.cfg.NoveltyWeight
}

// reproduce builds the next population: elites carried over unchanged,
// remaining slots filled by tournament-selected children. Returns the new
// population and the newly created children.
func (e *Engine) reproduce() ([]*Individual, []*Individual, error) {
	order := make([]int, len(e.pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return e.combined(e.pop[order[i]]) > e.combined(e.pop[order[j]])
	})

	next := make([]*Individual, 0, e.cfg.PopulationSize)
	for _, oi := range order[:e.cfg.EliteCount] {
		next = append(next, e.pop[oi])
	}

	var children []*Individual
	for len(next) < e.cfg.PopulationSize {
		child, err := e.spawnChild()
		if err != nil {
			return nil, nil, err
		}
		next = append(next, child)
		children = append(children, child)
	}
	return next, children, nil
}

// spawnChild selects parents, blends or clones, then mutates. The child
// is born unevaluated with a fresh id one generation past its parents.
func (e *Engine) spawnChild() (*Individual, error) {
	var (
		g       genome.Genome
		parents []string
		gen     int
	)
	if e.rng.Float64() < e.cfg.CrossoverRate {
		p1, err := TournamentSelect(e.pop, e.cfg.TournamentSize, e.rng)
		if err != nil {
			return nil, err
		}
		p2, err := TournamentSelect(e.pop, e.cfg.TournamentSize, e.rng)
		if err != nil {
			return nil, err
		}
		g = genome.Blend(p1.Genome, p2.Genome, e.rng)
		parents = []string{p1.ID, p2.ID}
		gen = max(p1.Generation, p2.Generation) + 1
	} else {
		p, err := TournamentSelect(e.pop, e.cfg.TournamentSize, e.rng)
		if err != nil {
			return nil, err
		}
		g = p.Genome.Clone()
		parents = []string{p.ID}
		gen = p.Generation + 1
	}
	g = genome.Mutate(g, e.cfg.Ranges, e.mutate, e.rng)
	return &Individual{
		ID:         e.ids.Next(),
		Genome:     g,
		Generation: gen,
		ParentIDs:  parents,
	}, nil
}

// Snapshot returns a deep copy of the current state for concurrent
// readers.
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := State{
		Generation:  e.gen,
		BestFitness: e.bestFitness,
		TreeStats:   e.tree.Stats(),
	}
	s.Population = make([]*Individual, len(e.pop))
	for i, ind := range e.pop {
		s.Population[i] = ind.Clone()
	}
	s.Scored = make([]*Individual, len(e.scored))
	for i, ind := range e.scored {
		s.Scored[i] = ind.Clone()
	}
	members := e.archive.Members()
	s.Archive = make([]*Individual, len(members))
	for i, ind := range members {
		s.Archive[i] = ind.Clone()
	}
	if e.best != nil {
		s.Best = e.best.Clone()
	}
	return s
}

// BestFitness returns the highest overall fitness observed so far.
func (e *Engine) BestFitness() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bestFitness
}

// Generation returns the number of completed generations.
func (e *Engine) Generation() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

// ExportTree serializes the phylogeny under the engine lock.
func (e *Engine) ExportTree() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Export()
}
