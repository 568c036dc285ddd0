// Package store persists discovery runs: run metadata, per-generation
// telemetry rows, the hall of fame and the phylogenetic tree, keyed by
// run id. Backends share one interface so the engine does not care
// whether results land in memory or in sqlite.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PhantasticUniverse/genesis/phylo"
	"github.com/PhantasticUniverse/genesis/telemetry"
)

// Run is the persisted record of one discovery run.
type Run struct {
	SchemaVersion int       `json:"schemaVersion"`
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt,omitempty"`
	Seed          int64     `json:"seed"`
	Generations   int       `json:"generations"`
	BestFitness   float64   `json:"bestFitness"`
	BestGenome    string    `json:"bestGenome"`
	Config        string    `json:"config"` // effective configuration, YAML
}

// NewRun mints a run record with a fresh id.
func NewRun(seed int64, config string) Run {
	return Run{
		SchemaVersion: CurrentSchemaVersion,
		ID:            uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		Seed:          seed,
		Config:        config,
	}
}

// Store defines persistence operations for discovery runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	SaveGeneration(ctx context.Context, runID string, stats telemetry.GenerationStats) error
	GetGenerations(ctx context.Context, runID string) ([]telemetry.GenerationStats, bool, error)
	SaveHallOfFame(ctx context.Context, runID string, entries []telemetry.HallEntry) error
	GetHallOfFame(ctx context.Context, runID string) ([]telemetry.HallEntry, bool, error)
	SaveTree(ctx context.Context, runID string, tree *phylo.Tree) error
	GetTree(ctx context.Context, runID string) (*phylo.Tree, bool, error)
}
