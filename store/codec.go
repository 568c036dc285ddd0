package store

import (
	"encoding/json"
	"errors"

	"github.com/PhantasticUniverse/genesis/phylo"
	"github.com/PhantasticUniverse/genesis/telemetry"
)

// CurrentSchemaVersion versions the run records this package writes.
const CurrentSchemaVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	if run.SchemaVersion != CurrentSchemaVersion {
		return Run{}, ErrVersionMismatch
	}
	return run, nil
}

func EncodeGeneration(stats telemetry.GenerationStats) ([]byte, error) {
	return json.Marshal(stats)
}

func DecodeGeneration(data []byte) (telemetry.GenerationStats, error) {
	var stats telemetry.GenerationStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return telemetry.GenerationStats{}, err
	}
	return stats, nil
}

func EncodeHallOfFame(entries []telemetry.HallEntry) ([]byte, error) {
	return json.Marshal(entries)
}

func DecodeHallOfFame(data []byte) ([]telemetry.HallEntry, error) {
	var entries []telemetry.HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Trees reuse the phylo document codec, so a tree read back from the
// store passes the same validation as one imported from disk.

func EncodeTree(tree *phylo.Tree) ([]byte, error) {
	return tree.Export()
}

func DecodeTree(data []byte) (*phylo.Tree, error) {
	return phylo.Import(data)
}
