package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.Grid.Width != 64 || cfg.Grid.Height != 64 {
		t.Errorf("grid = %dx%d, want 64x64", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Evolution.PopulationSize != 50 {
		t.Errorf("population size = %d, want 50", cfg.Evolution.PopulationSize)
	}
	if cfg.Novelty.K != 15 {
		t.Errorf("novelty k = %d, want 15", cfg.Novelty.K)
	}
	if cfg.Derived.MaxRadius != 31 {
		t.Errorf("max radius = %d, want 31 for a 64x64 grid", cfg.Derived.MaxRadius)
	}
	// Default r_max fits the default grid, so no clamping happens
	if cfg.Derived.Ranges.RMax != 25 {
		t.Errorf("derived r_max = %d, want 25", cfg.Derived.Ranges.RMax)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfigFile(t, `
grid:
  width: 32
evolution:
  population_size: 10
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Grid.Width != 32 {
		t.Errorf("grid width = %d, want overridden 32", cfg.Grid.Width)
	}
	if cfg.Grid.Height != 64 {
		t.Errorf("grid height = %d, want default 64", cfg.Grid.Height)
	}
	if cfg.Evolution.PopulationSize != 10 {
		t.Errorf("population size = %d, want overridden 10", cfg.Evolution.PopulationSize)
	}
	if cfg.Evolution.MutationRate != 0.3 {
		t.Errorf("mutation rate = %v, want default 0.3", cfg.Evolution.MutationRate)
	}
}

func TestLoadClampsRadiusToGrid(t *testing.T) {
	path := writeConfigFile(t, `
grid:
  width: 16
  height: 16
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Derived.MaxRadius != 7 {
		t.Errorf("max radius = %d, want 7 for a 16x16 grid", cfg.Derived.MaxRadius)
	}
	if cfg.Derived.Ranges.RMax != 7 {
		t.Errorf("derived r_max = %d, want clamped to 7", cfg.Derived.Ranges.RMax)
	}
	// The raw setting survives for WriteYAML
	if cfg.Ranges.RMax != 25 {
		t.Errorf("raw r_max = %d, want 25", cfg.Ranges.RMax)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"tiny grid",
			"grid:\n  width: 2\n  height: 2\n",
			"too small",
		},
		{
			"grid cannot fit r_min",
			"grid:\n  width: 8\n  height: 8\n",
			"largest radius",
		},
		{
			"inverted r range",
			"ranges:\n  r_min: 20\n  r_max: 10\n",
			"r range",
		},
		{
			"negative population",
			"evolution:\n  population_size: -1\n",
			"population size",
		},
		{
			"mutation rate above one",
			"evolution:\n  mutation_rate: 1.5\n",
			"mutation rate",
		},
		{
			"zero novelty k",
			"novelty:\n  k: 0\n",
			"novelty k",
		},
		{
			"unknown store backend",
			"store:\n  backend: redis\n",
			"store backend",
		},
		{
			"sqlite without path",
			"store:\n  backend: sqlite\n  sqlite_path: \"\"\n",
			"sqlite_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Evolution.PopulationSize = 33

	path := filepath.Join(t.TempDir(), "effective.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Evolution.PopulationSize != 33 {
		t.Errorf("population size = %d after round trip, want 33", reloaded.Evolution.PopulationSize)
	}
	if reloaded.Grid.Width != cfg.Grid.Width {
		t.Errorf("grid width changed in round trip: %d vs %d", reloaded.Grid.Width, cfg.Grid.Width)
	}
}
