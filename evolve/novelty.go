package evolve

import (
	"sort"

	"github.com/PhantasticUniverse/genesis/fitness"
)

// UpdateNovelty recomputes the novelty of every population member as the
// mean behavior distance to its k nearest neighbors drawn from the union
// by id of population and archive, excluding itself. An individual that
// sits in both contributes one neighbor, not two. When fewer than k
// neighbors exist, all available neighbors are used. Members without a
// behavior keep novelty 0 and are skipped as neighbors.
func UpdateNovelty(pop, archive []*Individual, k int) {
	neighbors := make([]*Individual, 0, len(pop)+len(archive))
	seen := make(map[string]bool, len(pop)+len(archive))
	for _, ind := range pop {
		if ind.Behavior != nil && !seen[ind.ID] {
			seen[ind.ID] = true
			neighbors = append(neighbors, ind)
		}
	}
	for _, ind := range archive {
		if ind.Behavior != nil && !seen[ind.ID] {
			seen[ind.ID] = true
			neighbors = append(neighbors, ind)
		}
	}

	dists := make([]float64, 0, len(neighbors))
	for _, ind := range pop {
		if ind.Behavior == nil {
			ind.Novelty = 0
			continue
		}
		dists = dists[:0]
		for _, other := range neighbors {
			if other.ID == ind.ID {
				continue
			}
			dists = append(dists, fitness.BehaviorDistance(*ind.Behavior, *other.Behavior))
		}
		ind.Novelty = meanNearest(dists, k)
	}
}

// meanNearest averages the k smallest distances, or all of them when
// fewer than k exist. An empty distance set means the individual has no
// peers, which counts as novelty 0.
func meanNearest(dists []float64, k int) float64 {
	if len(dists) == 0 {
		return 0
	}
	sort.Float64s(dists)
	if k > len(dists) {
		k = len(dists)
	}
	var sum float64
	for _, d := range dists[:k] {
		sum += d
	}
	return sum / float64(k)
}
