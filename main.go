package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PhantasticUniverse/genesis/config"
	"github.com/PhantasticUniverse/genesis/evolve"
	"github.com/PhantasticUniverse/genesis/phylo"
	"github.com/PhantasticUniverse/genesis/store"
	"github.com/PhantasticUniverse/genesis/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	outputDir := flag.String("output-dir", "", "Directory for run artifacts (overrides config)")
	storeBackend := flag.String("store", "", "Run store backend: memory or sqlite (overrides config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// CLI overrides
	if *generations > 0 {
		cfg.Evolution.Generations = *generations
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *storeBackend != "" {
		cfg.Store.Backend = *storeBackend
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if err := run(cfg, rngSeed); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, rngSeed int64) error {
	rng := rand.New(rand.NewSource(rngSeed))

	eval := evolve.NewSimEvaluator(cfg.Grid.Width, cfg.Grid.Height, cfg.Sim.Steps, cfg.Sim.SampleEvery)
	eval.Scorer.Bins = cfg.Fitness.EntropyBins
	eval.Scorer.BoxThreshold = cfg.Fitness.BoxThreshold

	engine, err := evolve.NewEngine(evolve.Config{
		PopulationSize:   cfg.Evolution.PopulationSize,
		MutationRate:     cfg.Evolution.MutationRate,
		CrossoverRate:    cfg.Evolution.CrossoverRate,
		EliteCount:       cfg.Evolution.EliteCount,
		TournamentSize:   cfg.Evolution.TournamentSize,
		NoveltyWeight:    cfg.Novelty.Weight,
		NoveltyK:         cfg.Novelty.K,
		ArchiveCap:       cfg.Novelty.ArchiveCap,
		ArchiveThreshold: cfg.Novelty.ArchiveThreshold,
		EvalWorkers:      cfg.Sim.Workers,
		TargetFitness:    cfg.Evolution.TargetFitness,
		Ranges:           cfg.Derived.Ranges,
	}, eval, rng)
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store.Backend, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	if err := st.Init(context.Background()); err != nil {
		return err
	}
	defer func() {
		if err := store.CloseIfSupported(st); err != nil {
			slog.Warn("closing store", "error", err)
		}
	}()

	om, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := om.Close(); err != nil {
			slog.Warn("closing output", "error", err)
		}
	}()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Warn("writing config snapshot", "error", err)
	}

	effective, err := cfg.YAML()
	if err != nil {
		return err
	}
	runRec := store.NewRun(rngSeed, string(effective))
	if err := st.SaveRun(context.Background(), runRec); err != nil {
		return err
	}

	collector := telemetry.NewCollector()
	detector := telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Sim.Steps)
	hall := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)

	// Stop between generations on SIGINT/SIGTERM; a generation always
	// finishes or is discarded whole.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting discovery run",
		"run_id", runRec.ID,
		"seed", rngSeed,
		"generations", cfg.Evolution.Generations,
		"population", cfg.Evolution.PopulationSize,
		"grid", cfg.Grid.Width,
		"workers", cfg.Sim.Workers,
		"output_dir", cfg.Telemetry.OutputDir,
		"store", cfg.Store.Backend,
	)

	runErr := engine.Run(ctx, cfg.Evolution.Generations, func(s evolve.State) {
		stats := collector.Flush(s)
		stats.LogStats()

		for _, ind := range s.Scored {
			hall.Consider(ind)
		}
		for _, bm := range detector.Check(stats) {
			bm.LogBookmark()
			if err := om.WriteBookmark(bm); err != nil {
				slog.Warn("writing bookmark", "error", err)
			}
		}
		if err := om.WriteGeneration(stats); err != nil {
			slog.Warn("writing generation row", "error", err)
		}
		if err := st.SaveGeneration(context.Background(), runRec.ID, stats); err != nil {
			slog.Warn("saving generation row", "error", err)
		}
	})
	stop()

	interrupted := errors.Is(runErr, context.Canceled)
	if runErr != nil && !interrupted {
		return runErr
	}

	// Final artifacts still get written after an interrupt, so a stopped
	// run remains inspectable.
	snap := engine.Snapshot()
	runRec.FinishedAt = time.Now().UTC()
	runRec.Generations = snap.Generation
	runRec.BestFitness = snap.BestFitness
	if snap.Best != nil {
		runRec.BestGenome = snap.Best.Genome.Encode()
	}
	if err := st.SaveRun(context.Background(), runRec); err != nil {
		slog.Warn("saving run record", "error", err)
	}
	if err := st.SaveHallOfFame(context.Background(), runRec.ID, hall.Entries()); err != nil {
		slog.Warn("saving hall of fame", "error", err)
	}
	if err := om.WriteHallOfFame(hall); err != nil {
		slog.Warn("writing hall of fame", "error", err)
	}

	treeData, err := engine.ExportTree()
	if err != nil {
		slog.Warn("exporting tree", "error", err)
	} else {
		if err := om.WriteTree(treeData); err != nil {
			slog.Warn("writing tree", "error", err)
		}
		tree, err := phylo.Import(treeData)
		if err != nil {
			slog.Warn("decoding exported tree", "error", err)
		} else if err := st.SaveTree(context.Background(), runRec.ID, tree); err != nil {
			slog.Warn("saving tree", "error", err)
		}
	}

	slog.Info("run complete",
		"run_id", runRec.ID,
		"interrupted", interrupted,
		"generations", snap.Generation,
		"best_fitness", snap.BestFitness,
		"best_genome", runRec.BestGenome,
		"archive_size", len(snap.Archive),
		"tree_nodes", snap.TreeStats.TotalNodes,
		"hall_size", hall.Size(),
	)
	return nil
}
