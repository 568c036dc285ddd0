package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/PhantasticUniverse/genesis/evolve"
	"github.com/PhantasticUniverse/genesis/fitness"
)

// HallEntry records one discovered genome and the scores it earned.
type HallEntry struct {
	ID         string           `json:"id"`
	Genome     string           `json:"genome"`
	Fitness    float64          `json:"fitness"`
	Novelty    float64          `json:"novelty"`
	Generation int              `json:"generation"`
	Behavior   fitness.Behavior `json:"behavior"`
}

// HallOfFame keeps the best genomes seen across a whole run, sorted by
// descending fitness and deduplicated by encoded genome, so a pattern
// rediscovered in a later generation does not crowd out distinct ones.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	seen    map[string]bool
}

// NewHallOfFame creates an empty hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		seen:    make(map[string]bool),
	}
}

// Consider evaluates an individual for hall entry. Returns true if it was
// added.
func (hof *HallOfFame) Consider(ind *evolve.Individual) bool {
	if !ind.Evaluated() {
		return false
	}
	encoded := ind.Genome.Encode()
	if hof.seen[encoded] {
		return false
	}

	entry := HallEntry{
		ID:         ind.ID,
		Genome:     encoded,
		Fitness:    ind.Fitness.Overall,
		Novelty:    ind.Novelty,
		Generation: ind.Generation,
		Behavior:   *ind.Behavior,
	}

	hof.entries = hof.insertEntry(hof.entries, entry)
	// insertEntry records the genome in seen only when it was kept.
	return hof.seen[encoded]
}

// insertEntry adds an entry keeping descending fitness order and the
// capacity bound, and maintains the seen set across insert and eviction.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	// Find insertion point (sorted descending by fitness)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry
	hof.seen[entry.Genome] = true

	if len(hall) > hof.maxSize {
		for _, evicted := range hall[hof.maxSize:] {
			delete(hof.seen, evicted.Genome)
		}
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int { return len(hof.entries) }

// Best returns a copy of the top entry, or nil for an empty hall.
func (hof *HallOfFame) Best() *HallEntry {
	if len(hof.entries) == 0 {
		return nil
	}
	best := hof.entries[0]
	return &best
}

// Entries returns a copy of all entries in rank order.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// TopFitness returns the highest fitness in the hall, 0 when empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall as an indented entry array.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFame reads a hall written by OutputManager.WriteHallOfFame.
// Capacity is the larger of the file's entry count and the given minimum.
func LoadHallOfFame(path string, minCapacity int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame: %w", err)
	}

	size := minCapacity
	if len(entries) > size {
		size = len(entries)
	}
	hof := NewHallOfFame(size)
	for _, e := range entries {
		if hof.seen[e.Genome] {
			continue
		}
		hof.entries = hof.insertEntry(hof.entries, e)
	}
	return hof, nil
}
