package evolve

import "sort"

// Archive is the bounded novelty archive. Members are deep copies of the
// individuals that were admitted, kept sorted by descending novelty with
// fitness as a tiebreak, and truncated to capacity after every merge.
// Eviction only removes an individual from this live set; its phylogeny
// record is untouched.
type Archive struct {
	cap       int
	threshold float64
	members   []*Individual
	ids       map[string]bool
}

// NewArchive creates an empty archive. Capacity 0 disables archiving
// entirely; threshold is the minimum novelty required for admission.
func NewArchive(capacity int, threshold float64) *Archive {
	return &Archive{
		cap:       capacity,
		threshold: threshold,
		ids:       make(map[string]bool),
	}
}

// Update merges qualifying candidates and truncates back to capacity.
// A candidate qualifies when its novelty reaches the admission threshold
// and its id is not already archived. Admitted individuals are stored as
// copies so later novelty sweeps over the live population cannot rewrite
// archive history.
func (a *Archive) Update(candidates []*Individual) {
	if a.cap <= 0 {
		return
	}

	for _, ind := range candidates {
		if ind.Novelty < a.threshold || a.ids[ind.ID] {
			continue
		}
		a.members = append(a.members, ind.Clone())
		a.ids[ind.ID] = true
	}

	sort.SliceStable(a.members, func(i, j int) bool {
		if a.members[i].Novelty != a.members[j].Novelty {
			return a.members[i].Novelty > a.members[j].Novelty
		}
		return a.members[i].overall() > a.members[j].overall()
	})

	if len(a.members) > a.cap {
		for _, evicted := range a.members[a.cap:] {
			delete(a.ids, evicted.ID)
		}
		a.members = a.members[:a.cap]
	}
}

// Members returns the live archive in novelty order. The slice is fresh
// but the individuals are the archive's own; callers must not mutate them.
func (a *Archive) Members() []*Individual {
	out := make([]*Individual, len(a.members))
	copy(out, a.members)
	return out
}

// Len returns the number of archived individuals.
func (a *Archive) Len() int { return len(a.members) }

// Contains reports whether id is currently archived.
func (a *Archive) Contains(id string) bool { return a.ids[id] }
