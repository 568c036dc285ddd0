package fitness

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/PhantasticUniverse/genesis/lenia"
)

// Fixed component weights of the overall fitness.
const (
	weightSurvival   = 0.3
	weightStability  = 0.2
	weightComplexity = 0.2
	weightSymmetry   = 0.2
	weightMovement   = 0.1
)

// Minimum history lengths below which a component scores 0.
const (
	minSurvivalSamples  = 10
	minStabilitySamples = 10
	minMovementSamples  = 20
)

// Components holds the five scored aspects of a trajectory, each in
// [0,1].
type Components struct {
	Survival   float64 `json:"survival"`
	Stability  float64 `json:"stability"`
	Complexity float64 `json:"complexity"`
	Symmetry   float64 `json:"symmetry"`
	Movement   float64 `json:"movement"`
}

// Score is the weighted overall fitness with its components preserved.
type Score struct {
	Components
	Overall float64 `json:"overall"`
}

// OverallFitness combines the components with the fixed weights.
func OverallFitness(c Components) Score {
	return Score{
		Components: c,
		Overall: weightSurvival*c.Survival +
			weightStability*c.Stability +
			weightComplexity*c.Complexity +
			weightSymmetry*c.Symmetry +
			weightMovement*c.Movement,
	}
}

// SurvivalFitness is the fraction of recorded steps where mass stayed
// at or above 10% of the initial mass. Histories shorter than
// minSurvivalSamples score 0.
func SurvivalFitness(massHistory []float64, initialMass float64) float64 {
	if len(massHistory) < minSurvivalSamples {
		return 0
	}
	bar := 0.1 * initialMass
	alive := 0
	for _, m := range massHistory {
		if m >= bar {
			alive++
		}
	}
	return float64(alive) / float64(len(massHistory))
}

// StabilityFitness is 1/(1+CV) where CV is the coefficient of
// variation of the mass history. Short histories and zero-mean
// histories score 0.
func StabilityFitness(massHistory []float64) float64 {
	if len(massHistory) < minStabilitySamples {
		return 0
	}
	mean := stat.Mean(massHistory, nil)
	if mean == 0 {
		return 0
	}
	cv := stat.StdDev(massHistory, nil) / mean
	return 1 / (1 + cv)
}

// MovementFitness rewards net displacement of the centroid, measured
// with toroidal distance on both axes so organisms crossing the wrap
// are not penalized. The net distance is normalized by half the grid
// diagonal and capped at 1. Stationary or short histories score 0.
func MovementFitness(centroids []lenia.Point, w, h int) float64 {
	if len(centroids) < minMovementSamples {
		return 0
	}
	var netX, netY float64
	for i := 1; i < len(centroids); i++ {
		netX += wrapDelta(centroids[i].X-centroids[i-1].X, float64(w))
		netY += wrapDelta(centroids[i].Y-centroids[i-1].Y, float64(h))
	}
	net := math.Hypot(netX, netY)
	if net == 0 {
		return 0
	}
	halfDiag := math.Hypot(float64(w), float64(h)) / 2
	return math.Min(1, net/halfDiag)
}

// wrapDelta maps a coordinate difference onto the shortest toroidal
// span for an axis of length n.
func wrapDelta(d, n float64) float64 {
	half := n / 2
	for d > half {
		d -= n
	}
	for d < -half {
		d += n
	}
	return d
}
