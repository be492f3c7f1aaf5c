package plugins

import (
	"context"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
)

// BasicState reports the agent's current position. Grounded on
// core_sensors.py's bb_basic_state_sensor.
func BasicState(ctx context.Context, agent *environment.Agent, env *environment.Environment) (map[string]bbvalue.Value, error) {
	return map[string]bbvalue.Value{
		"position": bbvalue.List([]bbvalue.Value{bbvalue.Int(int64(agent.Position.X)), bbvalue.Int(int64(agent.Position.Y))}),
	}, nil
}

// EnvFlags reports whether the agent's current cell is a nest or entry
// cell. Grounded on core_sensors.py's bb_env_flags_sensor.
func EnvFlags(ctx context.Context, agent *environment.Agent, env *environment.Environment) (map[string]bbvalue.Value, error) {
	cell := env.Grid.At(agent.Position)
	inNest := cell != nil && cell.Kind == environment.CellNest
	atEntry := false
	for _, p := range env.EntryPositions {
		if p == agent.Position {
			atEntry = true
			break
		}
	}
	return map[string]bbvalue.Value{
		"in_nest":  bbvalue.Bool(inNest),
		"at_entry": bbvalue.Bool(atEntry),
	}, nil
}

// FoodDetection reports the nearest food-bearing cell within Chebyshev
// radius 1, if any. Grounded on core_sensors.py's
// bb_food_detection_sensor, narrowed to the immediate neighborhood (the
// original's wider search radius is config-driven and left to a host
// plugin to add if its scenario needs it).
func FoodDetection(ctx context.Context, agent *environment.Agent, env *environment.Environment) (map[string]bbvalue.Value, error) {
	for _, d := range append([]environment.Position{{}}, neighbors8...) {
		pos := environment.Position{X: agent.Position.X + d.X, Y: agent.Position.Y + d.Y}
		cell := env.Grid.At(pos)
		if cell == nil || cell.Food == nil || cell.Food.Amount <= 0 {
			continue
		}
		return map[string]bbvalue.Value{
			"food_detected":  bbvalue.Bool(true),
			"food_position":  bbvalue.List([]bbvalue.Value{bbvalue.Int(int64(pos.X)), bbvalue.Int(int64(pos.Y))}),
		}, nil
	}
	return map[string]bbvalue.Value{"food_detected": bbvalue.Bool(false)}, nil
}

// PheromoneDetection reports the front-buffer pheromone concentration of
// every known type at the agent's current cell. Grounded on
// core_sensors.py's bb_pheromone_detection_sensor. This sensor's name
// contains "pheromone", so the registry's default policy throttles it to
// every 2 ticks.
func PheromoneDetection(ctx context.Context, agent *environment.Agent, env *environment.Environment) (map[string]bbvalue.Value, error) {
	out := make(map[string]bbvalue.Value, len(env.Pheromones.Types()))
	for _, ptype := range env.Pheromones.Types() {
		grid, ok := env.Pheromones.FieldFor(ptype)
		if !ok {
			continue
		}
		out["pheromone_"+ptype] = bbvalue.Float(float64(grid.At(agent.Position.X, agent.Position.Y)))
	}
	return out, nil
}
