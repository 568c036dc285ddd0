package genome

import (
	"math"
	"math/rand"
)

// Ranges bounds the numeric fields during random generation and
// mutation. Decode accepts the full declared domain regardless; these
// only shape the search space.
type Ranges struct {
	RMin, RMax int
	TMin, TMax int
	MMin, MMax float64
	SMin, SMax float64
	BMin, BMax float64
	BLenMax    int // maximum number of kernel rings
}

// DefaultRanges returns the search bounds used by the discovery engine.
func DefaultRanges() Ranges {
	return Ranges{
		RMin: 5, RMax: 25,
		TMin: 5, TMax: 20,
		MMin: 0.05, MMax: 0.5,
		SMin: 0.005, SMax: 0.1,
		BMin: 0.1, BMax: 1.0,
		BLenMax: 3,
	}
}

// MutateParams controls per-field mutation.
type MutateParams struct {
	Rate      float64 // per-field mutation probability
	Sigma     float64 // perturbation scale as a fraction of each field's range
	BAddRate  float64 // probability of growing the ring array by one
	BDropRate float64 // probability of shrinking the ring array by one
}

// DefaultMutateParams returns the standard mutation shape; Rate is set
// per run from the engine configuration.
func DefaultMutateParams(rate float64) MutateParams {
	return MutateParams{Rate: rate, Sigma: 0.1, BAddRate: 0.05, BDropRate: 0.05}
}

// Random draws a genome uniformly within r. The result is quantized so
// it round-trips exactly through the codec.
func Random(r Ranges, rng *rand.Rand) Genome {
	b := make([]float64, 1+rng.Intn(r.BLenMax))
	for i := range b {
		b[i] = quantize(r.BMin + rng.Float64()*(r.BMax-r.BMin))
	}
	return Genome{
		R:  r.RMin + rng.Intn(r.RMax-r.RMin+1),
		T:  r.TMin + rng.Intn(r.TMax-r.TMin+1),
		M:  quantize(r.MMin + rng.Float64()*(r.MMax-r.MMin)),
		S:  quantize(r.SMin + rng.Float64()*(r.SMax-r.SMin)),
		B:  b,
		KN: KernelShape(1 + rng.Intn(int(KernelStaircase))),
		GN: GrowthShape(1 + rng.Intn(int(GrowthStep))),
	}
}

// Blend produces a child genome by field-wise interpolation between two
// parents. Each numeric field draws its own blend factor; ring arrays
// are aligned by index with the shorter padded by repeating its last
// element. Shape selectors are inherited from a random parent.
func Blend(a, b Genome, rng *rand.Rand) Genome {
	child := Genome{
		R: blendInt(a.R, b.R, rng),
		T: blendInt(a.T, b.T, rng),
		M: quantize(blendReal(a.M, b.M, rng)),
		S: quantize(blendReal(a.S, b.S, rng)),
	}
	n := max(len(a.B), len(b.B))
	child.B = make([]float64, n)
	for i := range child.B {
		child.B[i] = quantize(blendReal(ringAt(a.B, i), ringAt(b.B, i), rng))
	}
	if rng.Intn(2) == 0 {
		child.KN = a.KN
	} else {
		child.KN = b.KN
	}
	if rng.Intn(2) == 0 {
		child.GN = a.GN
	} else {
		child.GN = b.GN
	}
	return child
}

// Mutate returns a perturbed copy of g. Each numeric field (ring
// entries included) mutates independently with probability p.Rate and
// is clamped back into r. The ring array may gain or lose one entry
// with the configured probabilities but never drops below length 1 or
// grows past r.BLenMax.
func Mutate(g Genome, r Ranges, p MutateParams, rng *rand.Rand) Genome {
	out := g.Clone()
	if rng.Float64() < p.Rate {
		out.R = clampInt(out.R+intStep(p.Sigma*float64(r.RMax-r.RMin), rng), r.RMin, r.RMax)
	}
	if rng.Float64() < p.Rate {
		out.T = clampInt(out.T+intStep(p.Sigma*float64(r.TMax-r.TMin), rng), r.TMin, r.TMax)
	}
	if rng.Float64() < p.Rate {
		out.M = quantize(clampReal(out.M+rng.NormFloat64()*p.Sigma*(r.MMax-r.MMin), r.MMin, r.MMax))
	}
	if rng.Float64() < p.Rate {
		out.S = quantize(clampReal(out.S+rng.NormFloat64()*p.Sigma*(r.SMax-r.SMin), r.SMin, r.SMax))
	}
	for i := range out.B {
		if rng.Float64() < p.Rate {
			out.B[i] = quantize(clampReal(out.B[i]+rng.NormFloat64()*p.Sigma*(r.BMax-r.BMin), r.BMin, r.BMax))
		}
	}
	if len(out.B) < r.BLenMax && rng.Float64() < p.BAddRate {
		out.B = append(out.B, quantize(r.BMin+rng.Float64()*(r.BMax-r.BMin)))
	}
	if len(out.B) > 1 && rng.Float64() < p.BDropRate {
		out.B = out.B[:len(out.B)-1]
	}
	return out
}

func blendReal(a, b float64, rng *rand.Rand) float64 {
	t := rng.Float64()
	return a + t*(b-a)
}

func blendInt(a, b int, rng *rand.Rand) int {
	return int(math.Round(blendReal(float64(a), float64(b), rng)))
}

// ringAt pads past-the-end reads with the last element.
func ringAt(b []float64, i int) float64 {
	if i >= len(b) {
		return b[len(b)-1]
	}
	return b[i]
}

// intStep draws a bounded integer perturbation, at least one cell wide
// so an elected mutation is never a silent no-op.
func intStep(scale float64, rng *rand.Rand) int {
	step := int(math.Round(rng.NormFloat64() * scale))
	if step == 0 {
		if rng.Intn(2) == 0 {
			return 1
		}
		return -1
	}
	return step
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampReal(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
