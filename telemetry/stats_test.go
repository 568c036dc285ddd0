package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{3.5}, 0.5, 3.5},
		{"p0 is min", []float64{1, 2, 3}, 0, 1},
		{"p1 is max", []float64{1, 2, 3}, 1, 3},
		{"median of pair interpolates", []float64{1, 2}, 0.5, 1.5},
		{"p10 of 1..10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p50 of 1..10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.5, 5.5},
		{"p90 of 1..10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5} // unsorted on purpose

	s := Summarize(values)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", s.Mean, 5.5},
		{"std", s.Std, 3.0277},
		{"p10", s.P10, 1.9},
		{"p50", s.P50, 5.5},
		{"p90", s.P90, 9.1},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	// Input must not be reordered.
	if values[0] != 10 || values[9] != 5 {
		t.Error("Summarize mutated its input")
	}
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{2.5})
	if s.Mean != 2.5 || s.P10 != 2.5 || s.P50 != 2.5 || s.P90 != 2.5 {
		t.Errorf("single-value summary = %+v, want all 2.5", s)
	}
	if s.Std != 0 {
		t.Errorf("single-value std = %v, want 0", s.Std)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("empty summary = %+v, want zero value", s)
	}
}
