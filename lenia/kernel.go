package lenia

import (
	"fmt"
	"math"

	"github.com/PhantasticUniverse/genesis/genome"
)

// Kernel is the convolution kernel sampled from a genome onto a
// (2R+1)² grid, normalized to unit sum.
type Kernel struct {
	Radius  int
	weights []float64
}

// BuildKernel samples the genome's ring-weighted kernel profile.
// It fails when the sampled kernel has zero total weight, which happens
// for radii too small to resolve the core shape.
func BuildKernel(g genome.Genome) (*Kernel, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build kernel: %w", err)
	}
	n := 2*g.R + 1
	k := &Kernel{Radius: g.R, weights: make([]float64, n*n)}
	sum := 0.0
	for dy := -g.R; dy <= g.R; dy++ {
		for dx := -g.R; dx <= g.R; dx++ {
			r := math.Sqrt(float64(dx*dx+dy*dy)) / float64(g.R)
			if r >= 1 {
				continue
			}
			w := shellAt(g, r)
			k.weights[(dy+g.R)*n+(dx+g.R)] = w
			sum += w
		}
	}
	if sum <= 0 {
		return nil, fmt.Errorf("build kernel: degenerate kernel for %s", g.Encode())
	}
	for i := range k.weights {
		k.weights[i] /= sum
	}
	return k, nil
}

// Size returns the kernel's side length 2R+1.
func (k *Kernel) Size() int {
	return 2*k.Radius + 1
}

// At returns the weight at offset (dx,dy) from the kernel center.
func (k *Kernel) At(dx, dy int) float64 {
	n := k.Size()
	return k.weights[(dy+k.Radius)*n+(dx+k.Radius)]
}

// shellAt evaluates the kernel profile at normalized radius r in [0,1).
// The radius is split into len(B) rings; each ring scales the core
// shape by its peak weight.
func shellAt(g genome.Genome, r float64) float64 {
	br := float64(len(g.B)) * r
	i := int(br)
	if i >= len(g.B) {
		i = len(g.B) - 1
	}
	return g.B[i] * kernelCore(g.KN, br-float64(i))
}

// kernelCore evaluates the selected core shape at ring-local radius
// r in [0,1).
func kernelCore(kn genome.KernelShape, r float64) float64 {
	switch kn {
	case genome.KernelExponential:
		rr := r * (1 - r)
		if rr <= 0 {
			return 0
		}
		return math.Exp(4 - 1/rr)
	case genome.KernelPolynomial:
		v := 4 * r * (1 - r)
		if v <= 0 {
			return 0
		}
		v *= v
		return v * v
	case genome.KernelStep:
		if r >= 0.25 && r <= 0.75 {
			return 1
		}
		return 0
	case genome.KernelStaircase:
		switch {
		case r >= 0.25 && r <= 0.75:
			return 1
		case r < 0.25:
			return 0.5
		default:
			return 0
		}
	default:
		return 0
	}
}
