package fitness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/PhantasticUniverse/genesis/lenia"
)

// Evaluator scores trajectories. The zero value is not usable; use
// NewEvaluator.
type Evaluator struct {
	Bins         int     // entropy histogram bins, at least 2
	BoxThreshold float64 // bounding-box occupancy threshold
}

// NewEvaluator returns an evaluator with the standard settings.
func NewEvaluator() *Evaluator {
	return &Evaluator{Bins: 10, BoxThreshold: DefaultBoxThreshold}
}

// Evaluate maps a trajectory to its fitness score and behavior
// descriptor. The complexity component is the mean frame entropy
// normalized by log(bins); the base Entropy metric stays unnormalized.
func (e *Evaluator) Evaluate(tr *lenia.Trajectory) (Score, Behavior, error) {
	if tr == nil || len(tr.MassHistory) == 0 || len(tr.Final) == 0 {
		return Score{}, Behavior{}, fmt.Errorf("evaluate: empty trajectory")
	}
	if e.Bins < 2 {
		return Score{}, Behavior{}, fmt.Errorf("evaluate: need at least 2 entropy bins, have %d", e.Bins)
	}

	frames := tr.Frames
	if len(frames) == 0 {
		frames = [][]float64{tr.Final}
	}
	norm := math.Log(float64(e.Bins))
	var entropySum float64
	for _, f := range frames {
		entropySum += Entropy(f, e.Bins) / norm
	}
	avgEntropy := entropySum / float64(len(frames))

	comps := Components{
		Survival:   SurvivalFitness(tr.MassHistory, tr.MassHistory[0]),
		Stability:  StabilityFitness(tr.MassHistory),
		Complexity: avgEntropy,
		Symmetry:   Symmetry(tr.Final, tr.Width, tr.Height),
		Movement:   MovementFitness(tr.CentroidHistory, tr.Width, tr.Height),
	}

	massVar := 0.0
	if len(tr.MassHistory) > 1 {
		massVar = stat.Variance(tr.MassHistory, nil)
	}
	behavior := Behavior{
		AvgMass:      stat.Mean(tr.MassHistory, nil),
		MassVariance: massVar,
		AvgSpeed:     avgSpeed(tr.CentroidHistory, tr.Width, tr.Height),
		AvgEntropy:   avgEntropy,
		BoundingSize: float64(BoundingBox(tr.Final, tr.Width, tr.Height, e.BoxThreshold).Size()),
		Lifespan:     float64(tr.Lifespan),
	}
	return OverallFitness(comps), behavior, nil
}

// avgSpeed is the mean per-step toroidal centroid displacement.
func avgSpeed(centroids []lenia.Point, w, h int) float64 {
	if len(centroids) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(centroids); i++ {
		dx := wrapDelta(centroids[i].X-centroids[i-1].X, float64(w))
		dy := wrapDelta(centroids[i].Y-centroids[i-1].Y, float64(h))
		sum += math.Hypot(dx, dy)
	}
	return sum / float64(len(centroids)-1)
}
