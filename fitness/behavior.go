package fitness

import "math"

// Behavior is the fixed-shape trajectory descriptor used for novelty
// search. It is distinct from fitness: two organisms can score the
// same fitness with very different behaviors.
type Behavior struct {
	AvgMass      float64 `json:"avgMass"`
	MassVariance float64 `json:"massVariance"`
	AvgSpeed     float64 `json:"avgSpeed"`
	AvgEntropy   float64 `json:"avgEntropy"`
	BoundingSize float64 `json:"boundingSize"`
	Lifespan     float64 `json:"lifespan"`
}

// lifespanWeight biases novelty toward lifespan differences.
const lifespanWeight = 2

// BehaviorDistance returns the weighted Euclidean distance between two
// descriptors. Every field weighs 1 except Lifespan, which weighs 2.
func BehaviorDistance(a, b Behavior) float64 {
	sq := func(x, y float64) float64 {
		d := x - y
		return d * d
	}
	sum := sq(a.AvgMass, b.AvgMass) +
		sq(a.MassVariance, b.MassVariance) +
		sq(a.AvgSpeed, b.AvgSpeed) +
		sq(a.AvgEntropy, b.AvgEntropy) +
		sq(a.BoundingSize, b.BoundingSize) +
		lifespanWeight*sq(a.Lifespan, b.Lifespan)
	return math.Sqrt(sum)
}
