package telemetry

import (
	"time"

	"github.com/PhantasticUniverse/genesis/evolve"
)

// Collector converts engine snapshots into generation rows, tracking
// wall-clock time between flushes.
type Collector struct {
	lastFlush time.Time
}

// NewCollector creates a collector; the elapsed timer starts immediately.
func NewCollector() *Collector {
	return &Collector{lastFlush: time.Now()}
}

// Flush aggregates the completed generation in s into a stats row and
// restarts the elapsed timer. Distributions are computed over s.Scored,
// the evaluated population of the generation that just finished.
func (c *Collector) Flush(s evolve.State) GenerationStats {
	now := time.Now()
	stats := GenerationStats{
		Generation:  s.Generation,
		ElapsedMs:   now.Sub(c.lastFlush).Milliseconds(),
		BestFitness: s.BestFitness,
		ArchiveSize: len(s.Archive),
		TreeNodes:   s.TreeStats.TotalNodes,
		TreeMaxGen:  s.TreeStats.Generations,
	}
	c.lastFlush = now

	if s.Best != nil {
		stats.BestGenome = s.Best.Genome.Encode()
	}

	var overall, novelty, lifespans, masses, entropies []float64
	for _, ind := range s.Scored {
		if !ind.Evaluated() {
			continue
		}
		overall = append(overall, ind.Fitness.Overall)
		novelty = append(novelty, ind.Novelty)
		lifespans = append(lifespans, ind.Behavior.Lifespan)
		masses = append(masses, ind.Behavior.AvgMass)
		entropies = append(entropies, ind.Behavior.AvgEntropy)
	}
	if len(overall) == 0 {
		return stats
	}

	fit := Summarize(overall)
	stats.FitnessMean = fit.Mean
	stats.FitnessStd = fit.Std
	stats.FitnessP10 = fit.P10
	stats.FitnessP50 = fit.P50
	stats.FitnessP90 = fit.P90
	stats.GenBest = maxOf(overall)

	stats.NoveltyMean = Summarize(novelty).Mean
	stats.NoveltyMax = maxOf(novelty)

	stats.MeanLifespan = Summarize(lifespans).Mean
	stats.MaxLifespan = maxOf(lifespans)
	stats.MeanMass = Summarize(masses).Mean
	stats.MeanEntropy = Summarize(entropies).Mean

	return stats
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
