// Package sensors implements the Sensor Runner: executing registered
// sensor plugins for an agent, merging their output with last-writer-wins
// semantics, and committing the result onto the agent's blackboard.
//
// Grounded on antsim/core/sensors_runner.py's SensorsRunner — same
// shared-per-tick spatial index, same on_interval throttling policy, same
// merge-then-commit flow — rebuilt with the plugin registry's typed
// Sensor interface instead of bare callables.
package sensors

import (
	"context"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/blackboard"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/observability"
	"github.com/antsim/antsim/internal/registry"
)

// Runner executes sensors registered in a Registry for one agent at a
// time, throttled by each sensor's SensorPolicy.
type Runner struct {
	registry *registry.Registry
	log      *observability.Logger
}

// New creates a Runner backed by reg. log may be nil to discard events.
func New(reg *registry.Registry, log *observability.Logger) *Runner {
	if log == nil {
		log = observability.NewLogger("sensors", nil)
	}
	return &Runner{registry: reg, log: log}
}

// Changeset is the outcome of running sensors for one agent: the set of
// blackboard diffs committed, and which sensors actually ran (skipped
// sensors are omitted, not listed with an empty result).
type Changeset struct {
	Ran     []string
	Changed map[string]blackboard.Diff
}

// Run executes every sensor registered under names (nil/empty means all
// registered sensors) for agent, honoring each sensor's run-interval
// policy against the current tick, merges their output into agent's
// blackboard with last-writer-wins on key collisions (logged as a
// warning), and commits the result.
//
// A sensor that errors is logged and skipped; it never aborts the run
// for the other sensors, since sensors only ever add facts and are
// mutually independent by construction.
func (r *Runner) Run(ctx context.Context, agent *environment.Agent, env *environment.Environment, idx *SpatialIndex, names []string) Changeset {
	if len(names) == 0 {
		names = r.registry.SensorNames()
	}

	merged := make(map[string]bbvalue.Value)
	var ran []string

	for _, name := range names {
		sensor, ok := r.registry.GetSensor(name)
		if !ok {
			r.log.Warn("sensor not found", "sensor", name)
			continue
		}
		policy := r.registry.SensorPolicyFor(name)
		if policy.Interval > 1 && idx.Tick()%policy.Interval != 0 {
			continue
		}

		data, err := sensor.Sense(ctx, agent, env)
		if err != nil {
			r.log.Error("sensor failed", "sensor", name, "agent_id", agent.ID, "error", err.Error())
			continue
		}
		ran = append(ran, name)

		for key, value := range data {
			if _, exists := merged[key]; exists {
				r.log.Warn("sensor key collision, last writer wins", "key", key, "sensor", name, "agent_id", agent.ID)
			}
			merged[key] = value
		}
	}

	agent.Blackboard.Update(merged)
	changed := agent.Blackboard.Commit()

	if len(changed) > 0 {
		r.log.Debug("agent blackboard updated from sensors", "agent_id", agent.ID, "sensors_ran", len(ran), "changes", len(changed))
	}

	return Changeset{Ran: ran, Changed: changed}
}
