package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/antsim/antsim/internal/environment"
)

const bootstrapSampleYAML = `
environment:
  width: 10
  height: 10
  entry_positions: [[0, 0]]
agent:
  queen_count: 1
  worker_count: 3
  queen_config:
    energy: 100
    max_energy: 100
  worker_config:
    social_stomach: 0
behavior_tree:
  root:
    type: step
    name: root
    step: do_nothing
food_sources:
  - position: [5, 5]
    amount: 20
pheromones:
  types: [food, hunger]
  evaporation_rate: 0.05
  diffusion_alpha: 0.1
queen_energy:
  energy_conversion_rate: 8
  energy_loss_rate: 3
  hunger_pheromone_strength: 3
brood:
  initial_energy: 50
  max_energy: 100
  maturation_time: 50
simulation:
  max_cycles: 5
`

func writeBootstrapConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(bootstrapSampleYAML), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestBuildEnvironmentSpawnsConfiguredPopulation(t *testing.T) {
	path := writeBootstrapConfig(t)
	cfg, _, _, err := loadAndValidate(path)
	if err != nil {
		t.Fatalf("loadAndValidate: %v", err)
	}

	env, err := buildEnvironment(cfg)
	if err != nil {
		t.Fatalf("buildEnvironment: %v", err)
	}

	queens := env.Agents.ByKind(environment.KindQueen)
	workers := env.Agents.ByKind(environment.KindWorker)
	if len(queens) != 1 {
		t.Errorf("queens = %d, want 1", len(queens))
	}
	if len(workers) != 3 {
		t.Errorf("workers = %d, want 3", len(workers))
	}
}

func TestBuildEnvironmentPlacesFoodSources(t *testing.T) {
	path := writeBootstrapConfig(t)
	cfg, _, _, err := loadAndValidate(path)
	if err != nil {
		t.Fatalf("loadAndValidate: %v", err)
	}

	env, err := buildEnvironment(cfg)
	if err != nil {
		t.Fatalf("buildEnvironment: %v", err)
	}

	cell := env.Grid.At(environment.Position{X: 5, Y: 5})
	if cell == nil || cell.Food == nil || cell.Food.Amount != 20 {
		t.Errorf("expected food amount 20 at (5,5), got %+v", cell)
	}
}

func TestLifecycleConfigFromMapsQueenAndBroodRates(t *testing.T) {
	path := writeBootstrapConfig(t)
	cfg, _, _, err := loadAndValidate(path)
	if err != nil {
		t.Fatalf("loadAndValidate: %v", err)
	}

	lc := lifecycleConfigFrom(cfg)
	if lc.QueenEnergyConversionRate != 8 {
		t.Errorf("QueenEnergyConversionRate = %d, want 8", lc.QueenEnergyConversionRate)
	}
	if lc.BroodMaturationTime != 50 {
		t.Errorf("BroodMaturationTime = %d, want 50", lc.BroodMaturationTime)
	}
	if lc.NextAgentID == nil {
		t.Error("NextAgentID should be set")
	}
}
