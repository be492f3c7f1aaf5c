package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/config"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/pheromone"
	"github.com/antsim/antsim/internal/tick"
)

// buildEnvironment constructs the grid, pheromone field, and initial
// agent/food population a SimulationConfig describes. It does not tick
// the simulation — that is the caller's job once an Engine is built
// around the returned Environment.
func buildEnvironment(cfg *config.SimulationConfig) (*environment.Environment, error) {
	grid, err := environment.NewGrid(cfg.Environment.Width, cfg.Environment.Height)
	if err != nil {
		return nil, fmt.Errorf("antsim: building grid: %w", err)
	}

	for _, w := range cfg.Environment.Walls {
		grid.SetKind(environment.Position{X: w[0], Y: w[1]}, environment.CellWall)
	}

	entries := make([]environment.Position, 0, len(cfg.Environment.EntryPositions))
	for _, e := range cfg.Environment.EntryPositions {
		pos := environment.Position{X: e[0], Y: e[1]}
		grid.SetKind(pos, environment.CellEntry)
		entries = append(entries, pos)
	}

	field, err := pheromone.New(pheromone.Config{
		Width:             cfg.Environment.Width,
		Height:            cfg.Environment.Height,
		Types:             cfg.Pheromones.Types,
		Evaporation:       cfg.Pheromones.EvaporationRate,
		Alpha:             cfg.Pheromones.DiffusionAlpha,
		AllowDynamicTypes: cfg.Pheromones.AllowDynamicTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("antsim: building pheromone field: %w", err)
	}

	env := environment.New(grid, environment.NewRegistry(), field)
	env.EntryPositions = entries

	for _, f := range cfg.FoodSources {
		grid.SetFood(environment.Position{X: f.Position[0], Y: f.Position[1]}, f.Amount)
	}

	if err := spawnInitialPopulation(env, cfg); err != nil {
		return nil, err
	}

	return env, nil
}

// spawnInitialPopulation places the configured number of queens and
// workers, each on the free cell nearest (by Chebyshev distance) to the
// first entry position (or the grid center, if none is configured),
// applying each kind's blackboard defaults from queen_config/worker_config.
func spawnInitialPopulation(env *environment.Environment, cfg *config.SimulationConfig) error {
	origin := environment.Position{X: cfg.Environment.Width / 2, Y: cfg.Environment.Height / 2}
	if len(env.EntryPositions) > 0 {
		origin = env.EntryPositions[0]
	}
	nearestFree := func() environment.Position {
		for r := 0; r <= cfg.Environment.Width+cfg.Environment.Height; r++ {
			for y := origin.Y - r; y <= origin.Y+r; y++ {
				for x := origin.X - r; x <= origin.X+r; x++ {
					p := environment.Position{X: x, Y: y}
					if environment.Chebyshev(origin, p) == r && env.Grid.InBounds(p) && !env.Grid.IsWall(p) && !env.Grid.IsOccupied(p) {
						return p
					}
				}
			}
		}
		return origin
	}

	for i := 0; i < cfg.Agent.QueenCount; i++ {
		queen := environment.New(uuid.NewString(), environment.KindQueen, nearestFree())
		applyBlackboardDefaults(queen, cfg.Agent.QueenConfig)
		if err := env.PlaceAgent(queen); err != nil {
			return fmt.Errorf("antsim: placing queen %d: %w", i, err)
		}
	}
	for i := 0; i < cfg.Agent.WorkerCount; i++ {
		worker := environment.New(uuid.NewString(), environment.KindWorker, nearestFree())
		applyBlackboardDefaults(worker, cfg.Agent.WorkerConfig)
		if err := env.PlaceAgent(worker); err != nil {
			return fmt.Errorf("antsim: placing worker %d: %w", i, err)
		}
	}
	return nil
}

func applyBlackboardDefaults(agent *environment.Agent, defaults map[string]any) {
	for k, v := range defaults {
		value, err := bbvalue.FromAny(v)
		if err != nil {
			continue
		}
		agent.Blackboard.Set(k, value)
	}
	agent.Blackboard.Commit()
}

// lifecycleConfigFrom adapts the config's queen_energy/brood blocks into
// the shape LifecycleRunner expects, handing it a uuid-backed id
// generator for spawned brood and matured workers.
func lifecycleConfigFrom(cfg *config.SimulationConfig) tick.LifecycleConfig {
	return tick.LifecycleConfig{
		QueenEnergyConversionRate:    cfg.QueenEnergy.EnergyConversionRate,
		QueenEnergyLossRate:          cfg.QueenEnergy.EnergyLossRate,
		QueenHungerPheromoneStrength: cfg.QueenEnergy.HungerPheromoneStrength,

		BroodInitialEnergy:   cfg.Brood.InitialEnergy,
		BroodMaxEnergy:       cfg.Brood.MaxEnergy,
		BroodInitialStomach:  cfg.Brood.InitialStomach,
		BroodStomachCapacity: cfg.Brood.StomachCapacity,
		BroodMaturationTime:  cfg.Brood.MaturationTime,
		BroodConversionRate:  cfg.Brood.ConversionRate,
		BroodLossRate:        cfg.Brood.LossRate,
		BroodHungerStrength:  cfg.Brood.HungerStrength,

		NextAgentID: func(kind environment.Kind) string { return uuid.NewString() },
	}
}
