// Package genome defines the Lenia parameter genome: a fixed-shape value
// record plus a compact reversible string encoding and the variation
// operators (random, blend, mutate) used by the discovery engine.
package genome

import (
	"fmt"
	"slices"
)

// KernelShape selects the kernel core function.
type KernelShape int

const (
	KernelExponential KernelShape = iota + 1 // smooth exponential bump
	KernelPolynomial                         // (4r(1-r))^4
	KernelStep                               // flat ring
	KernelStaircase                          // stepped ring
)

// Valid reports whether the shape is one of the known kernel cores.
func (k KernelShape) Valid() bool {
	return k >= KernelExponential && k <= KernelStaircase
}

// String returns the shape name.
func (k KernelShape) String() string {
	switch k {
	case KernelExponential:
		return "exponential"
	case KernelPolynomial:
		return "polynomial"
	case KernelStep:
		return "step"
	case KernelStaircase:
		return "staircase"
	default:
		return fmt.Sprintf("kernel(%d)", int(k))
	}
}

// GrowthShape selects the growth mapping function.
type GrowthShape int

const (
	GrowthExponential GrowthShape = iota + 1 // gaussian bump
	GrowthPolynomial                         // quartic bump
	GrowthStep                               // hard window
)

// Valid reports whether the shape is one of the known growth mappings.
func (g GrowthShape) Valid() bool {
	return g >= GrowthExponential && g <= GrowthStep
}

// String returns the shape name.
func (g GrowthShape) String() string {
	switch g {
	case GrowthExponential:
		return "exponential"
	case GrowthPolynomial:
		return "polynomial"
	case GrowthStep:
		return "step"
	default:
		return fmt.Sprintf("growth(%d)", int(g))
	}
}

// Genome holds the parameters of one Lenia simulation instance.
// Immutable by convention: variation operators return copies.
type Genome struct {
	R  int         // kernel radius in cells
	T  int         // time resolution; simulation step is 1/T
	M  float64     // growth center, in (0,1)
	S  float64     // growth width, positive
	B  []float64   // kernel ring peak weights, each in (0,1]
	KN KernelShape // kernel core selector
	GN GrowthShape // growth mapping selector
}

// Default returns the classic single-ring genome.
func Default() Genome {
	return Genome{R: 13, T: 10, M: 0.15, S: 0.017, B: []float64{1}, KN: KernelExponential, GN: GrowthExponential}
}

// Validate checks every field against its declared domain.
func (g Genome) Validate() error {
	switch {
	case g.R < 1:
		return &DecodeError{Field: "R", Reason: "must be a positive integer"}
	case g.T < 1:
		return &DecodeError{Field: "T", Reason: "must be a positive integer"}
	case g.M <= 0 || g.M >= 1:
		return &DecodeError{Field: "m", Reason: "must be in (0,1)"}
	case g.S <= 0:
		return &DecodeError{Field: "s", Reason: "must be positive"}
	case len(g.B) == 0:
		return &DecodeError{Field: "b", Reason: "must have at least one ring"}
	case !g.KN.Valid():
		return &DecodeError{Field: "kn", Reason: "unknown kernel shape"}
	case !g.GN.Valid():
		return &DecodeError{Field: "gn", Reason: "unknown growth shape"}
	}
	for i, b := range g.B {
		if b <= 0 || b > 1 {
			return &DecodeError{Field: "b", Reason: fmt.Sprintf("ring %d outside (0,1]", i)}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (g Genome) Clone() Genome {
	out := g
	out.B = slices.Clone(g.B)
	return out
}

// Equal reports exact field equality.
func (g Genome) Equal(other Genome) bool {
	return g.R == other.R && g.T == other.T &&
		g.M == other.M && g.S == other.S &&
		g.KN == other.KN && g.GN == other.GN &&
		slices.Equal(g.B, other.B)
}

// Quantize snaps the real-valued fields to codec precision so that the
// genome round-trips exactly through Encode/Decode.
func (g Genome) Quantize() Genome {
	out := g.Clone()
	out.M = quantize(g.M)
	out.S = quantize(g.S)
	for i, b := range g.B {
		out.B[i] = quantize(b)
	}
	return out
}

// Dt returns the simulation time step 1/T.
func (g Genome) Dt() float64 {
	return 1.0 / float64(g.T)
}
