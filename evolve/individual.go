// Package evolve implements the novelty-search genetic algorithm that
// drives pattern discovery. One Engine owns the population, the bounded
// novelty archive and the phylogeny mirror; all randomness flows through
// a single seeded generator so identical seeds reproduce identical runs.
package evolve

import (
	"fmt"

	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
)

// Individual pairs a genome with its evaluation results. Fitness and
// Behavior stay nil until the individual has been simulated; Novelty is
// recomputed every generation from the current population and archive.
type Individual struct {
	ID         string
	Genome     genome.Genome
	Fitness    *fitness.Score
	Behavior   *fitness.Behavior
	Novelty    float64
	Generation int
	ParentIDs  []string
}

// Evaluated reports whether fitness and behavior have been attached.
func (ind *Individual) Evaluated() bool {
	return ind.Fitness != nil && ind.Behavior != nil
}

// overall returns the overall fitness, 0 when unevaluated.
func (ind *Individual) overall() float64 {
	if ind.Fitness == nil {
		return 0
	}
	return ind.Fitness.Overall
}

// Clone deep-copies the individual so archive entries and snapshots do
// not alias live population state.
func (ind *Individual) Clone() *Individual {
	c := &Individual{
		ID:         ind.ID,
		Genome:     ind.Genome.Clone(),
		Novelty:    ind.Novelty,
		Generation: ind.Generation,
		ParentIDs:  append([]string(nil), ind.ParentIDs...),
	}
	if ind.Fitness != nil {
		f := *ind.Fitness
		c.Fitness = &f
	}
	if ind.Behavior != nil {
		b := *ind.Behavior
		c.Behavior = &b
	}
	return c
}

// IDGenerator hands out sequential individual ids. Sequential ids keep
// runs with the same seed byte-identical, which random ids would break.
type IDGenerator struct {
	next int
}

// Next returns the next id in the sequence: g1, g2, g3, ...
func (g *IDGenerator) Next() string {
	g.next++
	return fmt.Sprintf("g%d", g.next)
}
