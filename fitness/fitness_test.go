package fitness

import (
	"math"
	"testing"

	"github.com/PhantasticUniverse/genesis/lenia"
)

func TestSurvivalFitness(t *testing.T) {
	hist := make([]float64, 20)
	for i := range hist {
		if i < 15 {
			hist[i] = 5 // above 10% of initial mass 10
		} else {
			hist[i] = 0.5
		}
	}
	if got, want := SurvivalFitness(hist, 10), 0.75; math.Abs(got-want) > 1e-12 {
		t.Errorf("SurvivalFitness = %v, want %v", got, want)
	}
}

func TestSurvivalFitnessShortHistory(t *testing.T) {
	if got := SurvivalFitness([]float64{5, 5, 5}, 10); got != 0 {
		t.Errorf("SurvivalFitness on short history = %v, want 0", got)
	}
}

func TestStabilityFitness(t *testing.T) {
	constant := make([]float64, 20)
	for i := range constant {
		constant[i] = 7
	}
	if got := StabilityFitness(constant); math.Abs(got-1) > 1e-12 {
		t.Errorf("StabilityFitness of constant mass = %v, want 1", got)
	}

	noisy := make([]float64, 20)
	for i := range noisy {
		noisy[i] = 7 + 3*float64(i%2)
	}
	got := StabilityFitness(noisy)
	if got <= 0 || got >= 1 {
		t.Errorf("StabilityFitness of noisy mass = %v, want in (0,1)", got)
	}
}

func TestStabilityFitnessDegenerate(t *testing.T) {
	if got := StabilityFitness([]float64{1, 2}); got != 0 {
		t.Errorf("StabilityFitness on short history = %v, want 0", got)
	}
	if got := StabilityFitness(make([]float64, 20)); got != 0 {
		t.Errorf("StabilityFitness on zero-mean history = %v, want 0", got)
	}
}

func TestMovementFitnessAcrossWrap(t *testing.T) {
	// 24 steps of +2 cells along x, crossing the toroidal boundary.
	const w, h = 100, 100
	centroids := make([]lenia.Point, 25)
	for i := range centroids {
		centroids[i] = lenia.Point{X: math.Mod(float64(90+2*i), w), Y: 50}
	}
	want := 48 / (math.Hypot(w, h) / 2)
	if got := MovementFitness(centroids, w, h); math.Abs(got-want) > 1e-9 {
		t.Errorf("MovementFitness = %v, want %v", got, want)
	}
}

func TestMovementFitnessStationary(t *testing.T) {
	centroids := make([]lenia.Point, 30)
	for i := range centroids {
		centroids[i] = lenia.Point{X: 10, Y: 10}
	}
	if got := MovementFitness(centroids, 64, 64); got != 0 {
		t.Errorf("MovementFitness of stationary centroid = %v, want 0", got)
	}
}

func TestMovementFitnessShortHistory(t *testing.T) {
	centroids := []lenia.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}
	if got := MovementFitness(centroids, 64, 64); got != 0 {
		t.Errorf("MovementFitness on short history = %v, want 0", got)
	}
}

func TestMovementFitnessOscillationCancels(t *testing.T) {
	// Jitter between two points nets out to (almost) nothing.
	centroids := make([]lenia.Point, 30)
	for i := range centroids {
		centroids[i] = lenia.Point{X: 10 + float64(i%2), Y: 10}
	}
	got := MovementFitness(centroids, 64, 64)
	if got > 0.05 {
		t.Errorf("MovementFitness of oscillation = %v, want near 0", got)
	}
}

func TestOverallFitnessWeights(t *testing.T) {
	tests := []struct {
		name string
		c    Components
		want float64
	}{
		{"all ones", Components{1, 1, 1, 1, 1}, 1},
		{"all zeros", Components{}, 0},
		{"survival only", Components{Survival: 1}, 0.3},
		{"stability only", Components{Stability: 1}, 0.2},
		{"complexity only", Components{Complexity: 1}, 0.2},
		{"symmetry only", Components{Symmetry: 1}, 0.2},
		{"movement only", Components{Movement: 1}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := OverallFitness(tt.c)
			if math.Abs(s.Overall-tt.want) > 1e-12 {
				t.Errorf("Overall = %v, want %v", s.Overall, tt.want)
			}
			if s.Components != tt.c {
				t.Errorf("components not preserved: %+v", s.Components)
			}
		})
	}
}

func TestBehaviorDistanceSymmetric(t *testing.T) {
	a := Behavior{AvgMass: 10, MassVariance: 2, AvgSpeed: 0.5, AvgEntropy: 0.3, BoundingSize: 12, Lifespan: 100}
	b := Behavior{AvgMass: 8, MassVariance: 4, AvgSpeed: 0.2, AvgEntropy: 0.7, BoundingSize: 9, Lifespan: 80}
	if d1, d2 := BehaviorDistance(a, b), BehaviorDistance(b, a); d1 != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
	if got := BehaviorDistance(a, a); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}

func TestBehaviorDistanceLifespanWeight(t *testing.T) {
	var a, b Behavior
	b.AvgMass = 1
	if got := BehaviorDistance(a, b); math.Abs(got-1) > 1e-12 {
		t.Errorf("unit mass difference = %v, want 1", got)
	}
	b = Behavior{Lifespan: 1}
	if got, want := BehaviorDistance(a, b), math.Sqrt2; math.Abs(got-want) > 1e-12 {
		t.Errorf("unit lifespan difference = %v, want sqrt(2) = %v", got, want)
	}
}
