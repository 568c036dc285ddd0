package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/PhantasticUniverse/genesis/config"
	"github.com/PhantasticUniverse/genesis/fitness"
	"github.com/PhantasticUniverse/genesis/genome"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	rings := flag.Int("rings", 1, "Number of kernel rings in the search vector")
	kn := flag.Int("kn", 1, "Kernel shape selector (1-4), fixed during the search")
	gn := flag.Int("gn", 1, "Growth shape selector (1-3), fixed during the search")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	kernelShape := genome.KernelShape(*kn)
	growthShape := genome.GrowthShape(*gn)
	if !kernelShape.Valid() {
		log.Fatalf("invalid kernel shape %d", *kn)
	}
	if !growthShape.Valid() {
		log.Fatalf("invalid growth shape %d", *gn)
	}
	if *rings < 1 || *rings > cfg.Derived.Ranges.BLenMax {
		log.Fatalf("rings must be in [1, %d]", cfg.Derived.Ranges.BLenMax)
	}

	// Create parameter vector
	params := NewParamVector(cfg.Derived.Ranges, *rings, kernelShape, growthShape)

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	// Create fitness evaluator
	scorer := fitness.NewEvaluator()
	scorer.Bins = cfg.Fitness.EntropyBins
	scorer.BoxThreshold = cfg.Fitness.BoxThreshold
	evaluator := NewFitnessEvaluator(params, cfg.Grid.Width, cfg.Grid.Height,
		cfg.Sim.Steps, cfg.Sim.SampleEvery, evalSeeds, scorer)

	// Set up CMA-ES
	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	// Create optimization problem
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Denormalize to get raw parameter values
			raw := params.Denormalize(x)
			return evaluator.Evaluate(raw)
		},
	}

	// CMA-ES settings
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	// Population size
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	// Write header
	header := []string{"eval", "fitness"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	header = append(header, "genome")
	logWriter.Write(header)

	// Track evaluations and timing
	evalCount := 0
	var bestObjective float64 = 1e9
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		objective := originalFunc(x)
		evalCount++

		// Denormalize and clamp to get actual parameter values
		raw := params.Denormalize(x)
		clamped := params.Clamp(raw)
		if objective < bestObjective {
			bestObjective = objective
		}

		// Log clamped values to CSV (these are the values actually used)
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", -objective)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		row = append(row, params.ToGenome(clamped).Encode())
		logWriter.Write(row)
		logWriter.Flush()

		// Calculate timing
		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		// Print progress with timing
		score := evaluator.LastScore()
		fmt.Printf("Eval %d/%d: fitness=%.4f surv=%.2f stab=%.2f cplx=%.2f sym=%.2f mov=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, score.Overall, score.Survival, score.Stability,
			score.Complexity, score.Symmetry, score.Movement, -bestObjective,
			formatDuration(elapsed), formatDuration(remaining))

		return objective
	}

	// Run optimization
	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, steps per run: %d, grid: %dx%d\n",
		*seeds, cfg.Sim.Steps, cfg.Grid.Width, cfg.Grid.Height)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best genome found (may be from any evaluation, not just final)
	best, bestScore, ok := evaluator.BestGenome()
	if !ok {
		best = params.ToGenome(params.Denormalize(result.X))
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.4f (survival=%.2f stability=%.2f complexity=%.2f symmetry=%.2f movement=%.2f)\n",
		bestScore.Overall, bestScore.Survival, bestScore.Stability,
		bestScore.Complexity, bestScore.Symmetry, bestScore.Movement)
	fmt.Printf("Best genome: %s\n", best.Encode())

	// Save best genome
	genomePath := filepath.Join(*outputDir, "best_genome.txt")
	if err := os.WriteFile(genomePath, []byte(best.Encode()+"\n"), 0644); err != nil {
		log.Printf("failed to write best genome: %v", err)
	} else {
		fmt.Printf("\nBest genome saved to: %s\n", genomePath)
	}

	// Save the effective config so the run is reproducible
	configOutPath := filepath.Join(*outputDir, "config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write config: %v", err)
	} else {
		fmt.Printf("Config saved to: %s\n", configOutPath)
	}
}
