package plugins

import (
	"fmt"

	"github.com/antsim/antsim/internal/registry"
)

const origin = "plugins"

// RegisterAll wires every built-in step, trigger, and sensor into reg. A
// host config is free to call this once at startup and then register
// additional plugins of its own under different names.
func RegisterAll(reg *registry.Registry) error {
	steps := map[string]registry.Step{
		"do_nothing":           registry.StepFunc(DoNothing),
		"random_move":          registry.StepFunc(RandomMove),
		"move_to_entry":        registry.StepFunc(MoveToEntry),
		"feed_queen":           registry.StepFunc(FeedQueen),
		"idle":                 registry.StepFunc(Idle),
		"collect_nearest_food": registry.StepFunc(CollectNearestFood),
	}
	for name, step := range steps {
		if err := reg.RegisterStep(name, origin, step); err != nil {
			return fmt.Errorf("plugins: registering step %q: %w", name, err)
		}
	}

	triggers := map[string]registry.Trigger{
		"social_stomach_full":  registry.TriggerFunc(SocialStomachFull),
		"social_stomach_empty": registry.TriggerFunc(SocialStomachEmpty),
		"outside_nest":         registry.TriggerFunc(OutsideNest),
		"food_detected":        registry.TriggerFunc(FoodDetected),
		"is_hungry":            registry.TriggerFunc(IsHungry),
	}
	for name, trig := range triggers {
		if err := reg.RegisterTrigger(name, origin, trig); err != nil {
			return fmt.Errorf("plugins: registering trigger %q: %w", name, err)
		}
	}
	if err := registerExprTrigger(reg); err != nil {
		return fmt.Errorf("plugins: registering expr trigger: %w", err)
	}

	sensors := map[string]registry.Sensor{
		"bb_basic_state":         registry.SensorFunc(BasicState),
		"bb_env_flags":           registry.SensorFunc(EnvFlags),
		"bb_food_detection":      registry.SensorFunc(FoodDetection),
		"bb_pheromone_detection": registry.SensorFunc(PheromoneDetection),
	}
	for name, sensor := range sensors {
		if err := reg.RegisterSensor(name, origin, sensor, nil); err != nil {
			return fmt.Errorf("plugins: registering sensor %q: %w", name, err)
		}
	}

	return nil
}
