// Package lenia implements a CPU reference simulator for the continuous
// cellular automaton driven by the parameter genome: kernel construction,
// growth mapping, FFT-based toroidal convolution and trajectory capture.
package lenia

import (
	"fmt"
	"math/rand"

	"github.com/PhantasticUniverse/genesis/genome"
)

const (
	// extinctMass is the total mass below which a run counts as died out.
	extinctMass = 1e-6
	// saturatedFrac is the mean cell value above which a run counts as
	// having exploded into a filled grid.
	saturatedFrac = 0.9
)

// Point is a grid position with fractional coordinates.
type Point struct {
	X float64
	Y float64
}

// Trajectory records one simulated run. Histories hold one entry for
// the initial state plus one per completed step.
type Trajectory struct {
	Width           int
	Height          int
	Steps           int         // steps requested
	Lifespan        int         // steps actually completed
	Final           []float64   // state after the last completed step
	Frames          [][]float64 // sampled states, oldest first
	MassHistory     []float64
	CentroidHistory []Point
}

// Simulator advances a toroidal Lenia field for one genome. Not safe
// for concurrent use; each goroutine needs its own instance.
type Simulator struct {
	w, h   int
	dt     float64
	m, s   float64
	gn     genome.GrowthShape
	fft    *fft2
	kcoef  []complex128 // kernel spectrum
	state  []float64
	buf    []complex128 // convolution work buffer
	radius int
}

// NewSimulator builds the kernel spectrum for g on a w×h grid. The
// kernel diameter 2R+1 must fit inside both grid dimensions.
func NewSimulator(g genome.Genome, w, h int) (*Simulator, error) {
	if w < 4 || h < 4 {
		return nil, fmt.Errorf("new simulator: grid %dx%d too small", w, h)
	}
	if 2*g.R+1 > w || 2*g.R+1 > h {
		return nil, fmt.Errorf("new simulator: kernel radius %d does not fit %dx%d grid", g.R, w, h)
	}
	k, err := BuildKernel(g)
	if err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}

	s := &Simulator{
		w:      w,
		h:      h,
		dt:     g.Dt(),
		m:      g.M,
		s:      g.S,
		gn:     g.GN,
		fft:    newFFT2(w, h),
		state:  make([]float64, w*h),
		buf:    make([]complex128, w*h),
		radius: g.R,
	}

	// Embed the kernel with its center wrapped to the origin so the
	// convolution output stays aligned with the state grid.
	kcoef := make([]complex128, w*h)
	for dy := -g.R; dy <= g.R; dy++ {
		for dx := -g.R; dx <= g.R; dx++ {
			wgt := k.At(dx, dy)
			if wgt == 0 {
				continue
			}
			x := (dx + w) % w
			y := (dy + h) % h
			kcoef[y*w+x] = complex(wgt, 0)
		}
	}
	s.fft.forward(kcoef)
	s.kcoef = kcoef
	return s, nil
}

// Width returns the grid width.
func (s *Simulator) Width() int { return s.w }

// Height returns the grid height.
func (s *Simulator) Height() int { return s.h }

// Reset clears the field.
func (s *Simulator) Reset() {
	for i := range s.state {
		s.state[i] = 0
	}
}

// SeedPatch fills a centered disc with uniform random values drawn
// from rng. The disc radius is twice the kernel radius, clamped to a
// third of the smaller grid dimension.
func (s *Simulator) SeedPatch(rng *rand.Rand) {
	s.Reset()
	radius := 2 * s.radius
	if m := min(s.w, s.h) / 3; radius > m {
		radius = m
	}
	cx, cy := s.w/2, s.h/2
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			s.state[(cy+dy)*s.w+(cx+dx)] = rng.Float64()
		}
	}
}

// SetState replaces the field; cells must be w·h values in [0,1].
func (s *Simulator) SetState(cells []float64) error {
	if len(cells) != s.w*s.h {
		return fmt.Errorf("set state: got %d cells, want %d", len(cells), s.w*s.h)
	}
	for i, v := range cells {
		if v < 0 || v > 1 {
			return fmt.Errorf("set state: cell %d value %v outside [0,1]", i, v)
		}
	}
	copy(s.state, cells)
	return nil
}

// State returns a copy of the current field.
func (s *Simulator) State() []float64 {
	out := make([]float64, len(s.state))
	copy(out, s.state)
	return out
}

// Step advances the field by one time step: convolve the state with
// the kernel, apply the growth mapping scaled by dt, clamp to [0,1].
func (s *Simulator) Step() {
	for i, v := range s.state {
		s.buf[i] = complex(v, 0)
	}
	s.fft.forward(s.buf)
	for i := range s.buf {
		s.buf[i] *= s.kcoef[i]
	}
	s.fft.inverse(s.buf)

	for i, u := range s.buf {
		v := s.state[i] + s.dt*Growth(s.gn, real(u), s.m, s.s)
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		s.state[i] = v
	}
}

// Run advances up to steps steps, recording mass and centroid each
// step and a frame every sampleEvery steps (0 keeps no intermediate
// frames). It stops early when the field dies out or saturates.
func (s *Simulator) Run(steps, sampleEvery int) *Trajectory {
	tr := &Trajectory{
		Width:           s.w,
		Height:          s.h,
		Steps:           steps,
		MassHistory:     make([]float64, 0, steps+1),
		CentroidHistory: make([]Point, 0, steps+1),
	}

	mass, c := measure(s.state, s.w, s.h)
	tr.MassHistory = append(tr.MassHistory, mass)
	tr.CentroidHistory = append(tr.CentroidHistory, c)

	for i := 1; i <= steps; i++ {
		s.Step()
		tr.Lifespan = i

		mass, c = measure(s.state, s.w, s.h)
		tr.MassHistory = append(tr.MassHistory, mass)
		tr.CentroidHistory = append(tr.CentroidHistory, c)

		if sampleEvery > 0 && i%sampleEvery == 0 {
			tr.Frames = append(tr.Frames, s.State())
		}
		if mass < extinctMass || mass > saturatedFrac*float64(s.w*s.h) {
			break
		}
	}

	tr.Final = s.State()
	return tr
}

// measure computes total mass and the mass-weighted centroid in one
// sweep; an empty field reports the grid center.
func measure(cells []float64, w, h int) (float64, Point) {
	var mass, cx, cy float64
	for y := 0; y < h; y++ {
		row := cells[y*w : (y+1)*w]
		for x, v := range row {
			mass += v
			cx += v * float64(x)
			cy += v * float64(y)
		}
	}
	if mass == 0 {
		return 0, Point{X: float64(w) / 2, Y: float64(h) / 2}
	}
	return mass, Point{X: cx / mass, Y: cy / mass}
}
