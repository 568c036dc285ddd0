package evolve

import (
	"errors"
	"math/rand"
)

var errUnevaluatedPool = errors.New("tournament pool contains unevaluated individuals")

// TournamentSelect draws k individuals uniformly at random with
// replacement and returns the one with the highest overall fitness. Ties
// keep the earliest draw. Every pool member must already be evaluated;
// selecting from a partly evaluated pool is a sequencing bug in the
// caller, so it is reported as an error rather than papered over.
func TournamentSelect(pool []*Individual, k int, rng *rand.Rand) (*Individual, error) {
	if len(pool) == 0 {
		return nil, errors.New("tournament pool is empty")
	}
	if k < 1 {
		return nil, errors.New("tournament size must be >= 1")
	}
	for _, ind := range pool {
		if !ind.Evaluated() {
			return nil, errUnevaluatedPool
		}
	}

	best := pool[rng.Intn(len(pool))]
	for i := 1; i < k; i++ {
		challenger := pool[rng.Intn(len(pool))]
		if challenger.Fitness.Overall > best.Fitness.Overall {
			best = challenger
		}
	}
	return best, nil
}
