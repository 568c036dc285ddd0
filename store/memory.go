package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/PhantasticUniverse/genesis/phylo"
	"github.com/PhantasticUniverse/genesis/telemetry"
)

var errNotInitialized = errors.New("store is not initialized")

// MemoryStore keeps run records in process memory. Trees are held in
// their encoded form so callers never share mutable tree state with the
// store.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	generations map[string][]telemetry.GenerationStats
	halls       map[string][]telemetry.HallEntry
	trees       map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.generations = make(map[string][]telemetry.GenerationStats)
	s.halls = make(map[string][]telemetry.HallEntry)
	s.trees = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Run{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, stats telemetry.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	rows := s.generations[runID]
	for i := range rows {
		if rows[i].Generation == stats.Generation {
			rows[i] = stats
			return nil
		}
	}
	s.generations[runID] = append(rows, stats)
	return nil
}

func (s *MemoryStore) GetGenerations(_ context.Context, runID string) ([]telemetry.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	rows, ok := s.generations[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]telemetry.GenerationStats, len(rows))
	copy(copied, rows)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Generation < copied[j].Generation })
	return copied, true, nil
}

func (s *MemoryStore) SaveHallOfFame(_ context.Context, runID string, entries []telemetry.HallEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	copied := make([]telemetry.HallEntry, len(entries))
	copy(copied, entries)
	s.halls[runID] = copied
	return nil
}

func (s *MemoryStore) GetHallOfFame(_ context.Context, runID string) ([]telemetry.HallEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	entries, ok := s.halls[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]telemetry.HallEntry, len(entries))
	copy(copied, entries)
	return copied, true, nil
}

func (s *MemoryStore) SaveTree(_ context.Context, runID string, tree *phylo.Tree) error {
	payload, err := EncodeTree(tree)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.trees[runID] = payload
	return nil
}

func (s *MemoryStore) GetTree(_ context.Context, runID string) (*phylo.Tree, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, errNotInitialized
	}
	payload, ok := s.trees[runID]
	if !ok {
		return nil, false, nil
	}
	tree, err := DecodeTree(payload)
	if err != nil {
		return nil, false, err
	}
	return tree, true, nil
}
