// Package executor implements the Intent Executor: the sole mutator of
// an Environment on the Tick Engine's behalf. Steps and the Behavior
// Tree never touch the environment directly — they only produce
// Intents, which this package validates and applies, enforcing the
// single-move-per-tick and bounds/occupancy invariants.
//
// Grounded on antsim/core/executor.py's IntentExecutor — same
// apply_intents flow, same per-type apply_* handlers, same
// single-move-per-tick bookkeeping on the blackboard — rebuilt with
// typed Intent variants in place of the Python version's permissive
// dict/dataclass duck typing.
package executor

import (
	"fmt"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/intent"
	"github.com/antsim/antsim/internal/observability"
)

const (
	keyHasMoved        = "has_moved"
	keySocialStomach   = "social_stomach"
	keySocialCapacity  = "social_stomach_capacity"
)

// Applied describes one successfully applied intent.
type Applied struct {
	Intent intent.Intent
	Detail map[string]any
}

// RejectedIntent describes one rejected intent and why.
type RejectedIntent struct {
	Intent intent.Intent
	Reason string
}

// Report is the outcome of applying a batch of intents for one agent in
// one tick.
type Report struct {
	Executed []Applied
	Rejected []RejectedIntent
}

// Executor applies intents to an Environment, enforcing one move per
// agent per tick.
type Executor struct {
	log   *observability.Logger
	audit *AuditLog
}

// New creates an Executor. log and audit may both be nil.
func New(log *observability.Logger, audit *AuditLog) *Executor {
	if log == nil {
		log = observability.NewLogger("executor", nil)
	}
	if audit == nil {
		audit = NewAuditLog()
	}
	return &Executor{log: log, audit: audit}
}

// Audit returns the executor's audit trail.
func (e *Executor) Audit() *AuditLog { return e.audit }

// ResetCycle clears the per-tick movement marker and intent log for an
// agent. Must run before sensors/BT tick for that agent.
func (e *Executor) ResetCycle(agent *environment.Agent) {
	agent.Blackboard.Set(keyHasMoved, bbvalue.Bool(false))
	agent.Blackboard.Set("intents_executed", bbvalue.List(nil))
	agent.Blackboard.Commit()
}

// Apply validates and applies every intent in intents for agent against
// env, enforcing at most one MOVE per tick. The outcome of every intent
// — executed or rejected, with a reason — is appended to the agent's
// "intents_executed" blackboard key and to the executor's audit log.
func (e *Executor) Apply(tick int, agent *environment.Agent, env *environment.Environment, intents []intent.Intent) Report {
	var report Report
	moved, _ := agent.Blackboard.GetOr(keyHasMoved, bbvalue.Bool(false)).AsBool()

	for _, it := range intents {
		switch it.Type {
		case intent.Move:
			if moved {
				e.reject(tick, agent, &report, it, "move_already_done")
				continue
			}
			newPos, reason, ok := e.applyMove(agent, env, it)
			if !ok {
				e.reject(tick, agent, &report, it, reason)
				continue
			}
			moved = true
			agent.Blackboard.Set(keyHasMoved, bbvalue.Bool(true))
			agent.Blackboard.Commit()
			e.execute(tick, agent, &report, it, map[string]any{"new_position": newPos})

		case intent.Feed:
			detail, reason, ok := e.applyFeed(agent, env, it)
			if !ok {
				e.reject(tick, agent, &report, it, reason)
				continue
			}
			e.execute(tick, agent, &report, it, detail)

		case intent.DepositPheromone:
			detail, reason, ok := e.applyDeposit(agent, env, it)
			if !ok {
				e.reject(tick, agent, &report, it, reason)
				continue
			}
			e.execute(tick, agent, &report, it, detail)

		case intent.CollectFood:
			detail, reason, ok := e.applyCollectFood(agent, env, it)
			if !ok {
				e.reject(tick, agent, &report, it, reason)
				continue
			}
			e.execute(tick, agent, &report, it, detail)

		default:
			// Custom/unknown intents are a no-op by construction; they
			// execute trivially so a tree author sees a clean result.
			e.execute(tick, agent, &report, it, map[string]any{"result": "noop"})
		}
	}

	e.persistExecutionLog(agent, report)
	return report
}

func (e *Executor) applyMove(agent *environment.Agent, env *environment.Environment, it intent.Intent) (environment.Position, string, bool) {
	if it.Target != nil && it.HasDelta {
		return environment.Position{}, "ambiguous_move", false
	}
	cur := agent.Position
	var target environment.Position
	if it.Target != nil {
		target = *it.Target
	} else if it.HasDelta {
		target = environment.Position{X: cur.X + it.Delta.X, Y: cur.Y + it.Delta.Y}
	} else {
		return environment.Position{}, "no_target_or_delta", false
	}

	if !env.Grid.InBounds(target) {
		return environment.Position{}, "out_of_bounds", false
	}
	if environment.Chebyshev(cur, target) > 1 {
		return environment.Position{}, "too_far", false
	}
	if env.Grid.IsWall(target) {
		return environment.Position{}, "blocked", false
	}
	if target != cur && env.Grid.IsOccupied(target) {
		return environment.Position{}, "blocked", false
	}

	env.Relocate(agent, target)
	return target, "", true
}

func (e *Executor) applyFeed(agent *environment.Agent, env *environment.Environment, it intent.Intent) (map[string]any, string, bool) {
	target, ok := env.Agents.Get(it.TargetAgentID)
	if !ok {
		return nil, "target_not_found", false
	}

	social, _ := agent.Blackboard.GetOr(keySocialStomach, bbvalue.Int(0)).AsInt()
	if social <= 0 {
		return nil, "no_social_food", false
	}

	targetStomach, _ := target.Blackboard.GetOr("individual_stomach", bbvalue.Int(0)).AsInt()
	targetCapacity, _ := target.Blackboard.GetOr("individual_stomach_capacity", bbvalue.Int(0)).AsInt()
	free := targetCapacity - targetStomach
	if free <= 0 {
		return nil, "target_full", false
	}

	transfer := min64(social, free)
	if it.Amount != nil {
		transfer = min64(transfer, int64(*it.Amount))
	}
	if transfer <= 0 {
		return nil, "nothing_to_transfer", false
	}

	target.Blackboard.Set("individual_stomach", bbvalue.Int(targetStomach+transfer))
	target.Blackboard.Commit()
	agent.Blackboard.Set(keySocialStomach, bbvalue.Int(social-transfer))
	agent.Blackboard.Commit()

	return map[string]any{"target_id": target.ID, "transferred": transfer}, "", true
}

func (e *Executor) applyDeposit(agent *environment.Agent, env *environment.Environment, it intent.Intent) (map[string]any, string, bool) {
	pos := agent.Position
	if it.Position != nil {
		pos = *it.Position
	}
	if err := env.Pheromones.Deposit(it.PType, pos.X, pos.Y, float64(it.Strength)); err != nil {
		return nil, err.Error(), false
	}
	return map[string]any{"ptype": it.PType, "position": pos, "strength": it.Strength}, "", true
}

func (e *Executor) applyCollectFood(agent *environment.Agent, env *environment.Environment, it intent.Intent) (map[string]any, string, bool) {
	src := agent.Position
	if it.Source != nil {
		src = *it.Source
	}
	cell := env.Grid.At(src)
	if cell == nil {
		return nil, "out_of_bounds", false
	}
	if cell.Food == nil || cell.Food.Amount <= 0 {
		return nil, "no_food", false
	}

	requested := 10
	if it.Amount != nil {
		requested = *it.Amount
	}
	if requested <= 0 {
		return nil, "non_positive_amount", false
	}

	social, _ := agent.Blackboard.GetOr(keySocialStomach, bbvalue.Int(0)).AsInt()
	capacity, _ := agent.Blackboard.GetOr(keySocialCapacity, bbvalue.Int(0)).AsInt()
	free := capacity - social
	if free <= 0 {
		return nil, "no_capacity", false
	}

	collected := minInt(requested, int(free), cell.Food.Amount)
	if collected <= 0 {
		return nil, "nothing_to_collect", false
	}

	cell.Food.Amount -= collected
	if cell.Food.Amount <= 0 {
		cell.Food = nil
	}
	agent.Blackboard.Set(keySocialStomach, bbvalue.Int(social+int64(collected)))
	agent.Blackboard.Commit()

	return map[string]any{"collected": collected, "source": src}, "", true
}

func (e *Executor) execute(tick int, agent *environment.Agent, report *Report, it intent.Intent, detail map[string]any) {
	report.Executed = append(report.Executed, Applied{Intent: it, Detail: detail})
	e.audit.Record(tick, agent.ID, it.Type, Executed, "")
}

func (e *Executor) reject(tick int, agent *environment.Agent, report *Report, it intent.Intent, reason string) {
	report.Rejected = append(report.Rejected, RejectedIntent{Intent: it, Reason: reason})
	e.audit.Record(tick, agent.ID, it.Type, Rejected, reason)
	e.log.IntentRejected(agent.ID, string(it.Type), reason)
}

func (e *Executor) persistExecutionLog(agent *environment.Agent, report Report) {
	prior, _ := agent.Blackboard.GetOr("intents_executed", bbvalue.List(nil)).AsList()
	entries := append([]bbvalue.Value(nil), prior...)
	for _, a := range report.Executed {
		entries = append(entries, bbvalue.String(fmt.Sprintf("%s:executed", a.Intent.Type)))
	}
	for _, r := range report.Rejected {
		entries = append(entries, bbvalue.String(fmt.Sprintf("%s:rejected:%s", r.Intent.Type, r.Reason)))
	}
	agent.Blackboard.Set("intents_executed", bbvalue.List(entries))
	agent.Blackboard.Commit()
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func minInt(xs ...int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
