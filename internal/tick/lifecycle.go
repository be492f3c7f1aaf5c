package tick

import (
	"fmt"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/executor"
	"github.com/antsim/antsim/internal/intent"
	"github.com/antsim/antsim/internal/observability"
)

// Blackboard keys the energy cycle reads and writes. Shared with the
// queen/brood factory so initial agent state lines up with what this
// runner expects to find.
const (
	KeyEnergy              = "energy"
	KeyMaxEnergy           = "max_energy"
	KeySocialStomach       = "social_stomach"
	KeyConversionRate      = "energy_conversion_rate"
	KeyLossRate            = "energy_loss_rate"
	KeyHungerStrength      = "hunger_pheromone_strength"
	KeyIsSignalingHunger   = "is_signaling_hunger"
	KeyEggInterval         = "egg_laying_interval"
	KeyEggsLaid            = "eggs_laid"
	KeyMaxEggs             = "max_eggs"
	KeyLastEggTick         = "last_egg_tick"
	KeyGrowthProgress      = "growth_progress"
	KeyMaturationTime      = "maturation_time"
)

// LifecycleConfig carries the defaults used when spawning new Brood and
// Worker agents (egg-laying, maturation) and the fallback rates applied
// to any queen/brood agent whose blackboard doesn't already carry its
// own energy-cycle parameters. Mirrors spec.md §6's queen_energy and
// brood config blocks.
type LifecycleConfig struct {
	QueenEnergyConversionRate  int64
	QueenEnergyLossRate        int64
	QueenHungerPheromoneStrength int64

	BroodInitialEnergy        int64
	BroodMaxEnergy            int64
	BroodInitialStomach       int64
	BroodStomachCapacity      int64
	BroodMaturationTime       int64
	BroodConversionRate       int64
	BroodLossRate             int64
	BroodHungerStrength       int64

	NextAgentID func(kind environment.Kind) string
}

func (c LifecycleConfig) nextID(kind environment.Kind, fallbackSeq int) string {
	if c.NextAgentID != nil {
		return c.NextAgentID(kind)
	}
	return fmt.Sprintf("%s-%d", kind, fallbackSeq)
}

// LifecycleRunner applies the queen/brood energy cycle, egg-laying, and
// brood maturation described in spec.md §4.7, outside the Behavior Tree,
// exactly once per tick per living queen/brood.
//
// Grounded on antsim/core/queen.py's Queen.process_energy_cycle/
// can_lay_egg/lay_egg and antsim/core/brood.py's Brood.
// process_energy_cycle/can_grow/grow/can_mature — both classes carry an
// identical energy-conversion/loss/hunger-signal routine; this runner
// keeps that duplication only insofar as the two kinds' default rates
// differ, per LifecycleConfig.
type LifecycleRunner struct {
	cfg LifecycleConfig
	log *observability.Logger
	seq int
}

// NewLifecycleRunner creates a LifecycleRunner. log may be nil.
func NewLifecycleRunner(cfg LifecycleConfig, log *observability.Logger) *LifecycleRunner {
	if log == nil {
		log = observability.NewLogger("lifecycle", nil)
	}
	return &LifecycleRunner{cfg: cfg, log: log}
}

// Result reports what the lifecycle pass did, for Summary reporting.
type Result struct {
	Deaths []string
	Births []string
}

// Run applies the energy cycle to every living queen and brood in env,
// in stable registry order, then egg-laying for every queen and growth/
// maturation for every brood. A queen that starves in this pass does not
// lay an egg. Deaths are removed from env only after the full pass
// completes — matching the spec's "removal at the first safe point after
// the tick" rule.
// Newly spawned agents (eggs, matured workers) are placed into env
// immediately but are not re-visited within this same Run call.
func (r *LifecycleRunner) Run(tickID int, env *environment.Environment, ex *executor.Executor) Result {
	var result Result

	var dying []string
	for _, agent := range env.Agents.ByKind(environment.KindQueen) {
		if alive := r.energyCycle(tickID, agent, env, ex, r.cfg.QueenEnergyConversionRate, r.cfg.QueenEnergyLossRate, r.cfg.QueenHungerPheromoneStrength); !alive {
			dying = append(dying, agent.ID)
			continue
		}
		if spawned := r.tryLayEgg(tickID, agent, env); spawned != "" {
			result.Births = append(result.Births, spawned)
		}
	}

	var maturing []*environment.Agent
	for _, agent := range env.Agents.ByKind(environment.KindBrood) {
		conv := r.cfg.BroodConversionRate
		loss := r.cfg.BroodLossRate
		hunger := r.cfg.BroodHungerStrength
		if alive := r.energyCycle(tickID, agent, env, ex, conv, loss, hunger); !alive {
			dying = append(dying, agent.ID)
			continue
		}
		if r.tryGrow(agent) {
			if r.canMature(agent) {
				maturing = append(maturing, agent)
			}
		}
	}

	for _, brood := range maturing {
		workerID := r.matureToWorker(tickID, brood, env)
		result.Births = append(result.Births, workerID)
	}

	for _, id := range dying {
		env.RemoveAgent(id)
		result.Deaths = append(result.Deaths, id)
	}

	return result
}

// energyCycle implements Queen/Brood.process_energy_cycle: convert stomach
// contents to energy, or lose energy when the stomach is empty; then emit
// a hunger-signaling deposit whenever energy is below max. Returns false
// if the agent starved to death this tick.
func (r *LifecycleRunner) energyCycle(tickID int, agent *environment.Agent, env *environment.Environment, ex *executor.Executor, conversionRate, lossRate, hungerStrength int64) bool {
	bb := agent.Blackboard
	energy, _ := bb.GetOr(KeyEnergy, bbvalue.Int(0)).AsInt()
	maxEnergy, _ := bb.GetOr(KeyMaxEnergy, bbvalue.Int(100)).AsInt()
	stomach, _ := bb.GetOr(KeySocialStomach, bbvalue.Int(0)).AsInt()

	if cr, ok := bb.Get(KeyConversionRate); ok {
		conversionRate, _ = cr.AsInt()
	}
	if lr, ok := bb.Get(KeyLossRate); ok {
		lossRate, _ = lr.AsInt()
	}
	if hs, ok := bb.Get(KeyHungerStrength); ok {
		hungerStrength, _ = hs.AsInt()
	}

	if stomach > 0 {
		converted := min64(stomach, conversionRate)
		gained := min64(converted, maxEnergy-energy)
		energy += gained
		stomach -= converted
		bb.Set(KeyEnergy, bbvalue.Int(energy))
		bb.Set(KeySocialStomach, bbvalue.Int(stomach))
	} else {
		lost := min64(energy, lossRate)
		energy -= lost
		bb.Set(KeyEnergy, bbvalue.Int(energy))
		if energy <= 0 {
			bb.Commit()
			r.log.Info("agent starved", "agent_id", agent.ID, "tick", tickID, "kind", string(agent.Kind))
			return false
		}
	}

	if energy < maxEnergy {
		bb.Set(KeyIsSignalingHunger, bbvalue.Bool(true))
		bb.Commit()
		hungerIntent := intent.NewDepositPheromone("hunger", int(hungerStrength), nil)
		ex.Apply(tickID, agent, env, []intent.Intent{hungerIntent})
	} else {
		bb.Set(KeyIsSignalingHunger, bbvalue.Bool(false))
		bb.Commit()
	}
	return true
}

// tryLayEgg implements Queen.can_lay_egg/lay_egg: requires the egg
// interval to have elapsed, eggs_laid under the cap, and full energy.
// Returns the new Brood's id, or "" if no egg was laid.
func (r *LifecycleRunner) tryLayEgg(tickID int, queen *environment.Agent, env *environment.Environment) string {
	bb := queen.Blackboard
	lastEgg, _ := bb.GetOr(KeyLastEggTick, bbvalue.Int(0)).AsInt()
	interval, _ := bb.GetOr(KeyEggInterval, bbvalue.Int(10)).AsInt()
	eggsLaid, _ := bb.GetOr(KeyEggsLaid, bbvalue.Int(0)).AsInt()
	maxEggs, _ := bb.GetOr(KeyMaxEggs, bbvalue.Int(100)).AsInt()
	energy, _ := bb.GetOr(KeyEnergy, bbvalue.Int(0)).AsInt()
	maxEnergy, _ := bb.GetOr(KeyMaxEnergy, bbvalue.Int(100)).AsInt()

	if int64(tickID)-lastEgg < interval || eggsLaid >= maxEggs || energy < maxEnergy {
		return ""
	}

	r.seq++
	id := r.cfg.nextID(environment.KindBrood, r.seq)
	brood := environment.New(id, environment.KindBrood, queen.Position)
	r.initBrood(brood)
	if err := env.PlaceAgent(brood); err != nil {
		r.log.Warn("egg-laying: could not place brood", "queen_id", queen.ID, "error", err.Error())
		return ""
	}

	bb.Set(KeyLastEggTick, bbvalue.Int(int64(tickID)))
	bb.Set(KeyEggsLaid, bbvalue.Int(eggsLaid+1))
	bb.Commit()
	r.log.Info("queen laid egg", "queen_id", queen.ID, "brood_id", id, "tick", tickID)
	return id
}

func (r *LifecycleRunner) initBrood(brood *environment.Agent) {
	bb := brood.Blackboard
	bb.Set(KeyEnergy, bbvalue.Int(r.cfg.BroodInitialEnergy))
	bb.Set(KeyMaxEnergy, bbvalue.Int(r.cfg.BroodMaxEnergy))
	bb.Set(KeySocialStomach, bbvalue.Int(r.cfg.BroodInitialStomach))
	bb.Set("social_stomach_capacity", bbvalue.Int(r.cfg.BroodStomachCapacity))
	bb.Set(KeyGrowthProgress, bbvalue.Int(0))
	bb.Set(KeyMaturationTime, bbvalue.Int(r.cfg.BroodMaturationTime))
	bb.Set(KeyConversionRate, bbvalue.Int(r.cfg.BroodConversionRate))
	bb.Set(KeyLossRate, bbvalue.Int(r.cfg.BroodLossRate))
	bb.Set(KeyHungerStrength, bbvalue.Int(r.cfg.BroodHungerStrength))
	bb.Set(KeyIsSignalingHunger, bbvalue.Bool(false))
	bb.Commit()
}

// tryGrow implements Brood.can_grow/grow: growth only progresses at full
// energy.
func (r *LifecycleRunner) tryGrow(brood *environment.Agent) bool {
	bb := brood.Blackboard
	energy, _ := bb.GetOr(KeyEnergy, bbvalue.Int(0)).AsInt()
	maxEnergy, _ := bb.GetOr(KeyMaxEnergy, bbvalue.Int(100)).AsInt()
	if energy < maxEnergy {
		return false
	}
	growth, _ := bb.GetOr(KeyGrowthProgress, bbvalue.Int(0)).AsInt()
	bb.Set(KeyGrowthProgress, bbvalue.Int(growth+1))
	bb.Commit()
	return true
}

// canMature implements Brood.can_mature.
func (r *LifecycleRunner) canMature(brood *environment.Agent) bool {
	growth, _ := brood.Blackboard.GetOr(KeyGrowthProgress, bbvalue.Int(0)).AsInt()
	maturation, _ := brood.Blackboard.GetOr(KeyMaturationTime, bbvalue.Int(50)).AsInt()
	return growth >= maturation
}

// matureToWorker replaces a mature brood with a new Worker at the same
// cell, per §4.7's "replace the brood with a new Worker". The brood is
// removed from env here, before the worker is placed on its cell, and is
// not reported as a death; the new worker's id is returned so Run can
// report it as a birth.
func (r *LifecycleRunner) matureToWorker(tickID int, brood *environment.Agent, env *environment.Environment) string {
	env.RemoveAgent(brood.ID)
	r.seq++
	id := r.cfg.nextID(environment.KindWorker, r.seq)
	worker := environment.New(id, environment.KindWorker, brood.Position)
	worker.Blackboard.Set(KeyEnergy, bbvalue.Int(r.cfg.BroodMaxEnergy))
	worker.Blackboard.Set(KeyMaxEnergy, bbvalue.Int(r.cfg.BroodMaxEnergy))
	worker.Blackboard.Commit()
	if err := env.PlaceAgent(worker); err != nil {
		r.log.Warn("maturation: could not place worker", "brood_id", brood.ID, "error", err.Error())
	}
	r.log.Info("brood matured", "brood_id", brood.ID, "worker_id", id, "tick", tickID)
	return id
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
