// Package telemetry turns engine snapshots into run artifacts: per
// generation CSV rows, bookmark events for notable moments, a hall of
// fame of the best genomes ever seen, and structured log output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats is one telemetry.csv row summarizing a completed
// generation.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	ElapsedMs  int64 `csv:"elapsed_ms"`

	// Fitness distribution over the evaluated population
	BestFitness float64 `csv:"best_fitness"` // run-wide, monotonic
	GenBest     float64 `csv:"gen_best"`     // best within this generation
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Novelty and archive
	NoveltyMean float64 `csv:"novelty_mean"`
	NoveltyMax  float64 `csv:"novelty_max"`
	ArchiveSize int     `csv:"archive_size"`

	// Behavior aggregates
	MeanLifespan float64 `csv:"mean_lifespan"`
	MaxLifespan  float64 `csv:"max_lifespan"`
	MeanMass     float64 `csv:"mean_mass"`
	MeanEntropy  float64 `csv:"mean_entropy"`

	// Phylogeny growth
	TreeNodes  int `csv:"tree_nodes"`
	TreeMaxGen int `csv:"tree_max_generation"`

	BestGenome string `csv:"best_genome"`
}

// Summary holds mean, spread and percentiles of one value distribution.
type Summary struct {
	Mean, Std, P10, P50, P90 float64
}

// Summarize computes distribution statistics. Zero for empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("elapsed_ms", s.ElapsedMs),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("gen_best", s.GenBest),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Float64("novelty_mean", s.NoveltyMean),
		slog.Float64("novelty_max", s.NoveltyMax),
		slog.Int("archive_size", s.ArchiveSize),
		slog.Float64("mean_lifespan", s.MeanLifespan),
		slog.Float64("max_lifespan", s.MaxLifespan),
		slog.Float64("mean_mass", s.MeanMass),
		slog.Float64("mean_entropy", s.MeanEntropy),
		slog.Int("tree_nodes", s.TreeNodes),
		slog.Int("tree_max_generation", s.TreeMaxGen),
		slog.String("best_genome", s.BestGenome),
	)
}

// LogStats logs the key columns of the generation row at info level.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"elapsed_ms", s.ElapsedMs,
		"best_fitness", s.BestFitness,
		"gen_best", s.GenBest,
		"fitness_mean", s.FitnessMean,
		"novelty_mean", s.NoveltyMean,
		"archive_size", s.ArchiveSize,
		"mean_lifespan", s.MeanLifespan,
		"tree_nodes", s.TreeNodes,
	)
}
