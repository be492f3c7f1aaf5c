// Package behavior implements the Behavior Tree runtime: Sequence,
// Selector, Condition, and StepLeaf nodes ticking over a per-agent
// TickContext, collecting the Intents their steps produce.
//
// Grounded on antsim/behavior/bt.py's Node/Sequence/Selector/Condition/
// StepLeaf classes and its structured "bt_transition enter/exit" tracing.
// The Python StepLeaf accepts half a dozen ad hoc result shapes
// (dict-with-status, bare list, bool, string, ...); this runtime drops
// that polymorphism in favor of the registry package's single
// StepResult type, decided in the project's tracking document as the
// canonical replacement.
package behavior

import (
	"context"
	"fmt"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/intent"
	"github.com/antsim/antsim/internal/observability"
	"github.com/antsim/antsim/internal/registry"
	"github.com/antsim/antsim/internal/triggers"
)

// Status is re-exported from registry so BT nodes and steps share one
// vocabulary.
type Status = registry.Status

const (
	Success = registry.Success
	Failure = registry.Failure
	Running = registry.Running
)

// Tracer receives structured BT transition events. Implementations should
// be cheap; nil is a valid Tracer (see NopTracer).
type Tracer interface {
	Enter(tick int, agentID, nodeName, nodeKind string)
	Exit(tick int, agentID, nodeName, nodeKind string, status Status)
}

// NopTracer discards every event.
type NopTracer struct{}

func (NopTracer) Enter(int, string, string, string)         {}
func (NopTracer) Exit(int, string, string, string, Status) {}

// LogTracer emits BT transitions through an observability.Logger at
// debug level, one line per enter/exit, mirroring the structured
// bt_transition events the original engine logs per node.
type LogTracer struct {
	Log *observability.Logger
}

func (t LogTracer) Enter(tick int, agentID, nodeName, nodeKind string) {
	t.Log.Debug("bt transition", "tick", tick, "agent_id", agentID, "node", nodeName, "kind", nodeKind, "phase", "enter")
}

func (t LogTracer) Exit(tick int, agentID, nodeName, nodeKind string, status Status) {
	t.Log.Debug("bt transition", "tick", tick, "agent_id", agentID, "node", nodeName, "kind", nodeKind, "phase", "exit", "status", string(status))
}

// TickContext carries everything a node needs to tick once for one
// agent: the acting agent and environment, the plugin registry and
// trigger evaluator used to resolve leaves, the current tick number, the
// node path accumulated so far (for diagnostics), and the intents
// collected by StepLeaf nodes during this tick.
type TickContext struct {
	Ctx      context.Context
	Agent    *environment.Agent
	Env      *environment.Environment
	Registry *registry.Registry
	Triggers *triggers.Evaluator
	Tick     int
	NodePath []string
	Intents  []intent.Intent
	Tracer   Tracer
}

// NewTickContext creates a TickContext with a NopTracer unless t is
// supplied.
func NewTickContext(ctx context.Context, agent *environment.Agent, env *environment.Environment, reg *registry.Registry, trig *triggers.Evaluator, tick int, t Tracer) *TickContext {
	if t == nil {
		t = NopTracer{}
	}
	return &TickContext{Ctx: ctx, Agent: agent, Env: env, Registry: reg, Triggers: trig, Tick: tick, Tracer: t}
}

// Node is a BT node: Sequence, Selector, Condition, or StepLeaf.
type Node interface {
	Name() string
	Tick(tc *TickContext) (Status, error)
}

type base struct {
	name string
}

func (b base) Name() string { return b.name }

// Sequence runs its children in order, failing (or going Running) at the
// first child that doesn't succeed.
type Sequence struct {
	base
	Children []Node
}

// NewSequence creates a Sequence node.
func NewSequence(name string, children []Node) *Sequence {
	return &Sequence{base: base{name: name}, Children: children}
}

func (s *Sequence) Tick(tc *TickContext) (Status, error) {
	tc.Tracer.Enter(tc.Tick, tc.Agent.ID, s.name, "sequence")
	for i, child := range s.Children {
		tc.NodePath = append(tc.NodePath, fmt.Sprintf("%s[%d]", s.name, i))
		status, err := child.Tick(tc)
		tc.NodePath = tc.NodePath[:len(tc.NodePath)-1]
		if err != nil {
			return Failure, err
		}
		if status != Success {
			tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "sequence", status)
			return status, nil
		}
	}
	tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "sequence", Success)
	return Success, nil
}

// Selector runs its children in order, succeeding (or going Running) at
// the first child that doesn't fail.
type Selector struct {
	base
	Children []Node
}

// NewSelector creates a Selector node.
func NewSelector(name string, children []Node) *Selector {
	return &Selector{base: base{name: name}, Children: children}
}

func (s *Selector) Tick(tc *TickContext) (Status, error) {
	tc.Tracer.Enter(tc.Tick, tc.Agent.ID, s.name, "selector")
	for i, child := range s.Children {
		tc.NodePath = append(tc.NodePath, fmt.Sprintf("%s[%d]", s.name, i))
		status, err := child.Tick(tc)
		tc.NodePath = tc.NodePath[:len(tc.NodePath)-1]
		if err != nil {
			return Failure, err
		}
		if status != Failure {
			tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "selector", status)
			return status, nil
		}
	}
	tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "selector", Failure)
	return Failure, nil
}

// Condition succeeds when its trigger set, composed with Logic, is true.
// A missing or erroring trigger counts as false, never aborting the
// tick — matching the Trigger Evaluator's own fail-closed semantics.
// ParamsByName carries each TriggerRef's own params map (spec's
// `TriggerRef = { name, params? }`), keyed by trigger name; a name with
// no entry evaluates with no params.
type Condition struct {
	base
	TriggerNames []string
	Logic        triggers.Logic
	ParamsByName map[string]map[string]bbvalue.Value
}

// NewCondition creates a Condition node.
func NewCondition(name string, triggerNames []string, logic triggers.Logic, paramsByName map[string]map[string]bbvalue.Value) *Condition {
	return &Condition{base: base{name: name}, TriggerNames: triggerNames, Logic: logic, ParamsByName: paramsByName}
}

func (c *Condition) Tick(tc *TickContext) (Status, error) {
	tc.Tracer.Enter(tc.Tick, tc.Agent.ID, c.name, "condition")
	final, _ := tc.Triggers.EvaluateMany(c.TriggerNames, tc.Agent.Blackboard, c.Logic, c.ParamsByName)
	status := Failure
	if final {
		status = Success
	}
	tc.Tracer.Exit(tc.Tick, tc.Agent.ID, c.name, "condition", status)
	return status, nil
}

// StepLeaf invokes a registered step plugin, collects its intents onto
// the TickContext, and reports its status. A step that is not
// registered, or that returns an error, is a leaf Failure — it never
// aborts the surrounding tree's tick.
type StepLeaf struct {
	base
	StepName string
	Params   map[string]bbvalue.Value
}

// NewStepLeaf creates a StepLeaf node bound to a registered step name.
func NewStepLeaf(name, stepName string, params map[string]bbvalue.Value) *StepLeaf {
	return &StepLeaf{base: base{name: name}, StepName: stepName, Params: params}
}

func (s *StepLeaf) Tick(tc *TickContext) (Status, error) {
	tc.Tracer.Enter(tc.Tick, tc.Agent.ID, s.name, "step")
	step, ok := tc.Registry.GetStep(s.StepName)
	if !ok {
		tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "step", Failure)
		return Failure, nil
	}
	result, err := step.Execute(tc.Ctx, tc.Agent, tc.Env, s.Params)
	if err != nil {
		tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "step", Failure)
		return Failure, nil
	}
	if len(result.Intents) > 0 {
		tc.Intents = append(tc.Intents, result.Intents...)
	}
	tc.Tracer.Exit(tc.Tick, tc.Agent.ID, s.name, "step", result.Status)
	return result.Status, nil
}
