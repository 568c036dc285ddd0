// Package config provides configuration loading for the discovery
// engine. Defaults are embedded; a user file overrides only the fields
// it names.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PhantasticUniverse/genesis/genome"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all discovery run parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Sim       SimConfig       `yaml:"simulation"`
	Ranges    RangesConfig    `yaml:"ranges"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Novelty   NoveltyConfig   `yaml:"novelty"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Store     StoreConfig     `yaml:"store"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the simulation grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SimConfig holds per-candidate simulation parameters.
type SimConfig struct {
	Steps       int `yaml:"steps"`        // update steps per evaluation
	SampleEvery int `yaml:"sample_every"` // record a frame every N steps
	Workers     int `yaml:"workers"`      // parallel evaluations
}

// RangesConfig bounds the genome search space.
type RangesConfig struct {
	RMin    int     `yaml:"r_min"`
	RMax    int     `yaml:"r_max"`
	TMin    int     `yaml:"t_min"`
	TMax    int     `yaml:"t_max"`
	MMin    float64 `yaml:"m_min"`
	MMax    float64 `yaml:"m_max"`
	SMin    float64 `yaml:"s_min"`
	SMax    float64 `yaml:"s_max"`
	BMin    float64 `yaml:"b_min"`
	BMax    float64 `yaml:"b_max"`
	BLenMax int     `yaml:"b_len_max"` // maximum number of kernel rings
}

// EvolutionConfig holds genetic algorithm parameters.
type EvolutionConfig struct {
	PopulationSize int     `yaml:"population_size"`
	Generations    int     `yaml:"generations"`
	MutationRate   float64 `yaml:"mutation_rate"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	EliteCount     int     `yaml:"elite_count"`
	TournamentSize int     `yaml:"tournament_size"`
	TargetFitness  float64 `yaml:"target_fitness"` // 0 disables early stopping
}

// NoveltyConfig holds novelty search parameters.
type NoveltyConfig struct {
	Weight           float64 `yaml:"weight"` // novelty share of the combined score
	K                int     `yaml:"k"`      // nearest neighbors for sparseness
	ArchiveCap       int     `yaml:"archive_cap"`
	ArchiveThreshold float64 `yaml:"archive_threshold"` // minimum novelty to enter
}

// FitnessConfig holds evaluator parameters.
type FitnessConfig struct {
	EntropyBins  int     `yaml:"entropy_bins"`
	BoxThreshold float64 `yaml:"box_threshold"` // bounding-box occupancy cutoff
}

// TelemetryConfig holds run output parameters.
type TelemetryConfig struct {
	OutputDir           string `yaml:"output_dir"` // empty disables file output
	BookmarkHistorySize int    `yaml:"bookmark_history_size"`
	HallOfFameSize      int    `yaml:"hall_of_fame_size"`
}

// StoreConfig holds run persistence parameters.
type StoreConfig struct {
	Backend    string `yaml:"backend"` // memory or sqlite
	SQLitePath string `yaml:"sqlite_path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxRadius int           // largest kernel radius the grid admits
	Ranges    genome.Ranges // search bounds with r_max clamped to the grid
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	short := c.Grid.Width
	if c.Grid.Height < short {
		short = c.Grid.Height
	}
	// A kernel of radius R spans 2R+1 cells and must fit both axes.
	c.Derived.MaxRadius = (short - 1) / 2

	r := genome.Ranges{
		RMin: c.Ranges.RMin, RMax: c.Ranges.RMax,
		TMin: c.Ranges.TMin, TMax: c.Ranges.TMax,
		MMin: c.Ranges.MMin, MMax: c.Ranges.MMax,
		SMin: c.Ranges.SMin, SMax: c.Ranges.SMax,
		BMin: c.Ranges.BMin, BMax: c.Ranges.BMax,
		BLenMax: c.Ranges.BLenMax,
	}
	if r.RMax > c.Derived.MaxRadius {
		r.RMax = c.Derived.MaxRadius
	}
	c.Derived.Ranges = r
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	if c.Grid.Width < 4 || c.Grid.Height < 4 {
		return fmt.Errorf("grid %dx%d is too small", c.Grid.Width, c.Grid.Height)
	}
	if c.Sim.Steps <= 0 {
		return fmt.Errorf("simulation steps must be > 0")
	}
	if c.Sim.SampleEvery < 0 {
		return fmt.Errorf("sample_every must be >= 0")
	}

	r := c.Derived.Ranges
	if r.RMin < 1 {
		return fmt.Errorf("r_min must be >= 1")
	}
	if c.Ranges.RMin > c.Ranges.RMax {
		return fmt.Errorf("r range [%d, %d] is invalid", c.Ranges.RMin, c.Ranges.RMax)
	}
	// Reachable only when clamping to the grid shrank r_max below r_min.
	if r.RMin > r.RMax {
		return fmt.Errorf("r_min %d exceeds the largest radius %d a %dx%d grid admits",
			r.RMin, c.Derived.MaxRadius, c.Grid.Width, c.Grid.Height)
	}
	if r.TMin < 1 || r.TMin > r.TMax {
		return fmt.Errorf("t range [%d, %d] is invalid", r.TMin, r.TMax)
	}
	if r.MMin <= 0 || r.MMin > r.MMax || r.MMax >= 1 {
		return fmt.Errorf("m range [%v, %v] must lie in (0, 1)", r.MMin, r.MMax)
	}
	if r.SMin <= 0 || r.SMin > r.SMax {
		return fmt.Errorf("s range [%v, %v] is invalid", r.SMin, r.SMax)
	}
	if r.BMin <= 0 || r.BMin > r.BMax || r.BMax > 1 {
		return fmt.Errorf("b range [%v, %v] must lie in (0, 1]", r.BMin, r.BMax)
	}
	if r.BLenMax < 1 {
		return fmt.Errorf("b_len_max must be >= 1")
	}

	e := c.Evolution
	if e.PopulationSize <= 0 {
		return fmt.Errorf("population size must be > 0")
	}
	if e.Generations <= 0 {
		return fmt.Errorf("generations must be > 0")
	}
	if e.MutationRate < 0 || e.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if e.CrossoverRate < 0 || e.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0, 1]")
	}
	if e.EliteCount < 0 || e.EliteCount > e.PopulationSize {
		return fmt.Errorf("elite count must be in [0, population size]")
	}
	if e.TournamentSize < 1 {
		return fmt.Errorf("tournament size must be >= 1")
	}

	n := c.Novelty
	if n.Weight < 0 || n.Weight > 1 {
		return fmt.Errorf("novelty weight must be in [0, 1]")
	}
	if n.K < 1 {
		return fmt.Errorf("novelty k must be >= 1")
	}
	if n.ArchiveCap < 0 {
		return fmt.Errorf("archive cap must be >= 0")
	}
	if n.ArchiveThreshold < 0 {
		return fmt.Errorf("archive threshold must be >= 0")
	}

	if c.Fitness.EntropyBins < 2 {
		return fmt.Errorf("entropy bins must be >= 2")
	}
	if c.Fitness.BoxThreshold < 0 || c.Fitness.BoxThreshold >= 1 {
		return fmt.Errorf("box threshold must be in [0, 1)")
	}

	switch c.Store.Backend {
	case "", "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite backend needs a sqlite_path")
		}
	default:
		return fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}

	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
