package lenia

import (
	"math"

	"github.com/PhantasticUniverse/genesis/genome"
)

// Growth maps the convolved potential u to a growth rate in [-1,1]
// using the genome's growth shape, center m and width s.
func Growth(gn genome.GrowthShape, u, m, s float64) float64 {
	switch gn {
	case genome.GrowthExponential:
		d := (u - m) / s
		return 2*math.Exp(-d*d/2) - 1
	case genome.GrowthPolynomial:
		d := u - m
		v := 1 - d*d/(9*s*s)
		if v <= 0 {
			return -1
		}
		v *= v
		return 2*v*v - 1
	case genome.GrowthStep:
		if math.Abs(u-m) <= s {
			return 1
		}
		return -1
	default:
		return -1
	}
}
