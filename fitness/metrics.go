// Package fitness turns simulated trajectories into scalar fitness
// components and behavior descriptors. The grid metrics are pure
// functions over row-major state slices.
package fitness

import (
	"math"

	"github.com/PhantasticUniverse/genesis/lenia"
)

// Mass returns the sum of all cell values.
func Mass(state []float64) float64 {
	var sum float64
	for _, v := range state {
		sum += v
	}
	return sum
}

// Centroid returns the mass-weighted mean position, or the grid center
// when the state is empty.
func Centroid(state []float64, w, h int) lenia.Point {
	var mass, cx, cy float64
	for y := 0; y < h; y++ {
		row := state[y*w : (y+1)*w]
		for x, v := range row {
			mass += v
			cx += v * float64(x)
			cy += v * float64(y)
		}
	}
	if mass == 0 {
		return lenia.Point{X: float64(w) / 2, Y: float64(h) / 2}
	}
	return lenia.Point{X: cx / mass, Y: cy / mass}
}

// Entropy returns the Shannon entropy (natural log) of the cell-value
// histogram over equal-width bins spanning [0,1]. The result is not
// normalized by log(bins): a single occupied bin scores 0, anything
// else is positive. Callers divide by log(bins) for a 0-1 score.
func Entropy(state []float64, bins int) float64 {
	if bins < 1 || len(state) == 0 {
		return 0
	}
	counts := make([]int, bins)
	for _, v := range state {
		i := int(v * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	n := float64(len(state))
	var e float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		e -= p * math.Log(p)
	}
	return e
}

// Box is the axis-aligned extent of occupied cells.
type Box struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Size returns the larger side span of the box.
func (b Box) Size() int {
	return max(b.MaxX-b.MinX, b.MaxY-b.MinY)
}

// DefaultBoxThreshold is the occupancy threshold used when callers
// have no explicit preference.
const DefaultBoxThreshold = 0.01

// BoundingBox returns the extent of cells valued above threshold.
// An empty state yields the zero box, whose Size is 0.
func BoundingBox(state []float64, w, h int, threshold float64) Box {
	var b Box
	found := false
	for y := 0; y < h; y++ {
		row := state[y*w : (y+1)*w]
		for x, v := range row {
			if v <= threshold {
				continue
			}
			if !found {
				b = Box{MinX: x, MinY: y, MaxX: x, MaxY: y}
				found = true
				continue
			}
			if x < b.MinX {
				b.MinX = x
			}
			if x > b.MaxX {
				b.MaxX = x
			}
			if y < b.MinY {
				b.MinY = y
			}
			if y > b.MaxY {
				b.MaxY = y
			}
		}
	}
	return b
}

// Symmetry scores the state against its reflections about the
// centroid: 0.3 horizontal + 0.3 vertical + 0.4 rotational-180.
// A single occupied cell scores exactly 1, an empty state 0.
func Symmetry(state []float64, w, h int) float64 {
	c := Centroid(state, w, h)
	horiz := reflectionOverlap(state, w, h, func(x, y float64) (float64, float64) {
		return 2*c.X - x, y
	})
	vert := reflectionOverlap(state, w, h, func(x, y float64) (float64, float64) {
		return x, 2*c.Y - y
	})
	rot := reflectionOverlap(state, w, h, func(x, y float64) (float64, float64) {
		return 2*c.X - x, 2*c.Y - y
	})
	return 0.3*horiz + 0.3*vert + 0.4*rot
}

// reflectionOverlap computes sum(min(v, reflected v)) / sum(v) over
// occupied cells. Reflections landing off-grid count as a full
// mismatch.
func reflectionOverlap(state []float64, w, h int, reflect func(x, y float64) (float64, float64)) float64 {
	var total, overlap float64
	for y := 0; y < h; y++ {
		row := state[y*w : (y+1)*w]
		for x, v := range row {
			if v <= 0 {
				continue
			}
			total += v
			rx, ry := reflect(float64(x), float64(y))
			xi := int(math.Round(rx))
			yi := int(math.Round(ry))
			if xi < 0 || xi >= w || yi < 0 || yi >= h {
				continue
			}
			overlap += math.Min(v, state[yi*w+xi])
		}
	}
	if total == 0 {
		return 0
	}
	return overlap / total
}
