// Package tick implements the Tick Engine: the per-agent
// reset/pre-sense/BT/apply/post-sense pipeline and the once-per-tick
// global pheromone advance, plus the queen/brood energy-cycle lifecycle
// that runs alongside it.
//
// Grounded on antsim/behavior/bt.py's BehaviorEngine._tick_with_tree,
// which drives exactly this pipeline per agent (reset_worker_cycle,
// sensors.update_worker, tree.tick, executor.apply_intents, a second
// sensors pass) and on PheromoneField.update_and_swap being called once
// per global tick rather than once per agent.
package tick

import (
	"context"
	"time"

	"github.com/antsim/antsim/internal/behavior"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/executor"
	"github.com/antsim/antsim/internal/observability"
	"github.com/antsim/antsim/internal/registry"
	"github.com/antsim/antsim/internal/sensors"
	"github.com/antsim/antsim/internal/triggers"
)

// AgentOutcome summarizes one agent's pipeline pass within a tick, for
// diagnostics and tests.
type AgentOutcome struct {
	AgentID      string
	BTStatus     behavior.Status
	Executed     int
	Rejected     int
	RejectedWhy  []string
	PreSensors   sensors.Changeset
	PostSensors  sensors.Changeset
}

// Summary is the outcome of one call to Engine.Tick.
type Summary struct {
	TickID        int
	Agents        []AgentOutcome
	PheromoneDiff map[string]pheromoneSummary
	Deaths        []string
	Births        []string
}

type pheromoneSummary struct {
	MassBefore float64
	MassAfter  float64
	Deposited  float64
}

// Engine drives the simulation one global tick at a time. It owns no
// state beyond its collaborators: the Environment (grid, agents,
// pheromones) is supplied per call and is the thing being advanced.
type Engine struct {
	registry  *registry.Registry
	triggers  *triggers.Evaluator
	sensors   *sensors.Runner
	executor  *executor.Executor
	lifecycle *LifecycleRunner
	log       *observability.Logger
	metrics   *observability.MetricsCollector

	worker Node
	queen  Node
	brood  Node

	tickID int
}

// Node is the subset of behavior.Node the engine needs: a root BT to
// tick for one agent.
type Node = behavior.Node

// Config bundles an Engine's fixed collaborators and per-kind behavior
// trees. WorkerTree is used as the fallback for any Kind without its own
// tree, mirroring BehaviorEngine's "fallback to worker tree if no queen
// tree" default.
type Config struct {
	Registry   *registry.Registry
	Log        *observability.Logger
	Metrics    *observability.MetricsCollector
	WorkerTree Node
	QueenTree  Node
	BroodTree  Node
	Lifecycle  LifecycleConfig
}

// New builds an Engine from cfg. Registry and WorkerTree are required;
// QueenTree/BroodTree fall back to WorkerTree when nil.
func New(cfg Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = observability.NewLogger("tick", nil)
	}
	queenTree := cfg.QueenTree
	if queenTree == nil {
		queenTree = cfg.WorkerTree
	}
	broodTree := cfg.BroodTree
	if broodTree == nil {
		broodTree = cfg.WorkerTree
	}
	evaluator := triggers.New(cfg.Registry, log)
	return &Engine{
		registry:  cfg.Registry,
		triggers:  evaluator,
		sensors:   sensors.New(cfg.Registry, log),
		executor:  executor.New(log, nil),
		lifecycle: NewLifecycleRunner(cfg.Lifecycle, log),
		log:       log,
		metrics:   cfg.Metrics,
		worker:    cfg.WorkerTree,
		queen:     queenTree,
		brood:     broodTree,
	}
}

// Metrics exposes the engine's metrics collector, or nil if none was
// configured.
func (e *Engine) Metrics() *observability.MetricsCollector { return e.metrics }

// Executor exposes the engine's Intent Executor, primarily so callers can
// read its audit log.
func (e *Engine) Executor() *executor.Executor { return e.executor }

// treeFor selects the per-agent-kind root, matching BehaviorEngine's
// _get_agent_tree: queens and brood get their own tree when configured,
// everyone else runs the worker tree.
func (e *Engine) treeFor(kind environment.Kind) Node {
	switch kind {
	case environment.KindQueen:
		return e.queen
	case environment.KindBrood:
		return e.brood
	default:
		return e.worker
	}
}

// Tick advances env by exactly one global tick: every registered agent
// runs reset → pre-sense → BT → apply → post-sense, in stable insertion
// order, followed by the queen/brood energy cycle and, finally, the
// single global pheromone advance. Agents that die during the lifecycle
// pass (starvation) are removed from the registry only after the pass
// completes, and newly spawned agents (eggs, matured workers) are not
// processed again until the next tick — matching the spec's "removal at
// the first safe point after the tick completes" rule.
func (e *Engine) Tick(ctx context.Context, env *environment.Environment) Summary {
	start := time.Now()
	e.tickID++
	tickID := e.tickID

	agents := env.Agents.All()
	idx := sensors.BuildSpatialIndex(env, tickID)

	outcomes := make([]AgentOutcome, 0, len(agents))
	for _, agent := range agents {
		outcomes = append(outcomes, e.tickAgent(ctx, agent, env, idx, tickID))
	}

	lifecycleResult := e.lifecycle.Run(tickID, env, e.executor)

	pheroDiff := make(map[string]pheromoneSummary, len(env.Pheromones.Types()))
	statsBefore := env.Pheromones.Stats()
	tickSummaries, err := env.Pheromones.UpdateAndSwap()
	if err != nil {
		e.log.Error("pheromone advance failed", "tick", tickID, "error", err.Error())
	}
	statsAfter := env.Pheromones.Stats()
	for _, ptype := range env.Pheromones.Types() {
		before := statsBefore[ptype]
		after := statsAfter[ptype]
		deposited := 0.0
		if ts, ok := tickSummaries[ptype]; ok {
			deposited = ts.Deposited
		}
		pheroDiff[ptype] = pheromoneSummary{MassBefore: before.Sum, MassAfter: after.Sum, Deposited: deposited}
		e.log.PheromoneSwap(ptype, before.Sum, after.Sum, deposited)
		if e.metrics != nil {
			e.metrics.Record(observability.MetricPheromoneMass, after.Sum, observability.Labels{"type": ptype})
		}
	}

	executed := countExecuted(outcomes)
	rejected := countRejected(outcomes)
	e.log.TickSummary(tickID, len(agents), executed, rejected)

	if e.metrics != nil {
		e.metrics.Record(observability.MetricTickDuration, float64(time.Since(start).Microseconds()), nil)
		e.metrics.IncrementBy("intents_applied", int64(executed))
		e.metrics.IncrementBy("intents_rejected", int64(rejected))
		e.metrics.Record(observability.MetricIntentsApplied, float64(executed), nil)
		e.metrics.Record(observability.MetricIntentsRejected, float64(rejected), nil)
		e.metrics.Record(observability.MetricAgentCount, float64(env.Agents.Count()), nil)
		if err != nil {
			e.metrics.Increment("errors")
		}
	}

	return Summary{
		TickID:        tickID,
		Agents:        outcomes,
		PheromoneDiff: pheroDiff,
		Deaths:        lifecycleResult.Deaths,
		Births:        lifecycleResult.Births,
	}
}

func (e *Engine) tickAgent(ctx context.Context, agent *environment.Agent, env *environment.Environment, idx *sensors.SpatialIndex, tickID int) AgentOutcome {
	e.executor.ResetCycle(agent)

	pre := e.sensors.Run(ctx, agent, env, idx, nil)

	tc := behavior.NewTickContext(ctx, agent, env, e.registry, e.triggers, tickID, nil)
	root := e.treeFor(agent.Kind)
	status, err := root.Tick(tc)
	if err != nil {
		e.log.Error("bt tick failed", "agent_id", agent.ID, "tick", tickID, "error", err.Error())
		status = behavior.Failure
		if e.metrics != nil {
			e.metrics.Increment("errors")
		}
	}

	report := e.executor.Apply(tickID, agent, env, tc.Intents)

	post := e.sensors.Run(ctx, agent, env, idx, nil)

	var reasons []string
	for _, r := range report.Rejected {
		reasons = append(reasons, r.Reason)
	}

	return AgentOutcome{
		AgentID:     agent.ID,
		BTStatus:    status,
		Executed:    len(report.Executed),
		Rejected:    len(report.Rejected),
		RejectedWhy: reasons,
		PreSensors:  pre,
		PostSensors: post,
	}
}

func countExecuted(outcomes []AgentOutcome) int {
	n := 0
	for _, o := range outcomes {
		n += o.Executed
	}
	return n
}

func countRejected(outcomes []AgentOutcome) int {
	n := 0
	for _, o := range outcomes {
		n += o.Rejected
	}
	return n
}
