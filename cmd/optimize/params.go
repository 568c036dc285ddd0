// Package main provides CMA-ES optimization for finding Lenia genomes
// directly, as a cross-check against the novelty-search engine.
package main

import (
	"fmt"
	"math"

	"github.com/PhantasticUniverse/genesis/genome"
)

// ParamSpec defines a single optimizable genome dimension.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector is the relaxed real-vector view of a genome. The integer
// fields R and T are treated as reals and rounded when a genome is
// materialized; the ring count is fixed per run so the vector has a
// constant dimension; the shape selectors stay outside the vector
// because closed enumerations do not relax into a continuous space.
type ParamVector struct {
	Specs []ParamSpec
	kn    genome.KernelShape
	gn    genome.GrowthShape
}

// NewParamVector builds the search dimensions from the configured
// genome ranges, with rings kernel-peak entries.
func NewParamVector(r genome.Ranges, rings int, kn genome.KernelShape, gn genome.GrowthShape) *ParamVector {
	d := genome.Default()
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "R", Min: float64(r.RMin), Max: float64(r.RMax), Default: float64(d.R)},
			{Name: "T", Min: float64(r.TMin), Max: float64(r.TMax), Default: float64(d.T)},
			{Name: "m", Min: r.MMin, Max: r.MMax, Default: d.M},
			{Name: "s", Min: r.SMin, Max: r.SMax, Default: d.S},
		},
		kn: kn,
		gn: gn,
	}
	for i := 0; i < rings; i++ {
		pv.Specs = append(pv.Specs, ParamSpec{
			Name: fmt.Sprintf("b%d", i+1), Min: r.BMin, Max: r.BMax, Default: 1.0,
		})
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ToGenome materializes a genome from raw parameter values, rounding
// the integer fields and quantizing the reals to codec precision.
func (pv *ParamVector) ToGenome(values []float64) genome.Genome {
	clamped := pv.Clamp(values)
	g := genome.Genome{
		R:  int(math.Round(clamped[0])),
		T:  int(math.Round(clamped[1])),
		M:  clamped[2],
		S:  clamped[3],
		B:  append([]float64(nil), clamped[4:]...),
		KN: pv.kn,
		GN: pv.gn,
	}
	return g.Quantize()
}

// FromGenome extracts the vector view of a genome. Missing rings are
// padded by repeating the last entry; extra rings are dropped.
func (pv *ParamVector) FromGenome(g genome.Genome) []float64 {
	v := []float64{float64(g.R), float64(g.T), g.M, g.S}
	for i := 4; i < len(pv.Specs); i++ {
		ring := i - 4
		if ring >= len(g.B) {
			ring = len(g.B) - 1
		}
		v = append(v, g.B[ring])
	}
	return v
}
