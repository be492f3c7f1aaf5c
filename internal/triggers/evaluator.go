// Package triggers implements the Trigger Evaluator: resolution of named
// trigger plugins against a blackboard, with AND/OR composition across
// several triggers and structured logging of every evaluation.
//
// Grounded on the original antsim-flow's
// antsim/core/triggers_evaluator.py — same evaluate/evaluate_many shape,
// same "missing trigger logs and returns false" and "empty name list
// defaults true" semantics — rebuilt with Go's typed error returns in
// place of the Python version's broad except Exception.
package triggers

import (
	"fmt"
	"strings"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/blackboard"
	"github.com/antsim/antsim/internal/observability"
	"github.com/antsim/antsim/internal/registry"
)

// Logic composes several trigger results into one.
type Logic string

const (
	AND Logic = "AND"
	OR  Logic = "OR"
)

// Evaluator resolves and runs trigger plugins from a Registry.
type Evaluator struct {
	registry *registry.Registry
	log      *observability.Logger
}

// New creates an Evaluator backed by reg. log may be nil to discard
// evaluation events.
func New(reg *registry.Registry, log *observability.Logger) *Evaluator {
	if log == nil {
		log = observability.NewLogger("triggers", nil)
	}
	return &Evaluator{registry: reg, log: log}
}

// Evaluate runs a single named trigger against bb. A trigger that is not
// registered, or whose Evaluate call returns an error, evaluates to
// false — the evaluator never propagates a trigger failure to its
// caller, matching the spec's "missing/erroring trigger is false, not a
// panic" requirement.
func (e *Evaluator) Evaluate(name string, bb *blackboard.Blackboard, params map[string]bbvalue.Value) bool {
	t, ok := e.registry.GetTrigger(name)
	if !ok {
		e.log.Warn("trigger missing", "trigger", name, "agent_id", bb.AgentID())
		return false
	}
	result, err := t.Evaluate(bb, params)
	if err != nil {
		e.log.Error("trigger evaluation failed", "trigger", name, "agent_id", bb.AgentID(), "error", err.Error())
		return false
	}
	e.log.Debug("trigger evaluated", "trigger", name, "agent_id", bb.AgentID(), "result", result)
	return result
}

// EvaluateMany evaluates every name in names against bb and composes the
// results with logic. An empty name list is vacuously true, matching the
// spec's gate semantics for a step with no guard triggers. paramsByName
// supplies the per-trigger-name params for a TriggerRef{name, params}
// (a nil or missing entry evaluates with no params). Returns the
// composed result plus a per-trigger detail map for diagnostics.
func (e *Evaluator) EvaluateMany(names []string, bb *blackboard.Blackboard, logic Logic, paramsByName map[string]map[string]bbvalue.Value) (bool, map[string]bool) {
	details := make(map[string]bool, len(names))
	if len(names) == 0 {
		return true, details
	}
	for _, n := range names {
		details[n] = e.Evaluate(n, bb, paramsByName[n])
	}

	var final bool
	if logic == OR {
		for _, v := range details {
			if v {
				final = true
				break
			}
		}
	} else {
		final = true
		for _, v := range details {
			if !v {
				final = false
				break
			}
		}
	}

	active := make([]string, 0, len(details))
	inactive := make([]string, 0, len(details))
	for n, v := range details {
		if v {
			active = append(active, n)
		} else {
			inactive = append(inactive, n)
		}
	}
	e.log.Info("triggers evaluated",
		"logic", string(logic),
		"final", final,
		"active", strings.Join(active, ","),
		"inactive", strings.Join(inactive, ","),
		"agent_id", bb.AgentID(),
	)
	return final, details
}

// ParseLogic normalizes a config-supplied logic string, defaulting to AND
// on anything unrecognized.
func ParseLogic(s string) Logic {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OR":
		return OR
	default:
		return AND
	}
}

// ErrUnknownLogic is returned by strict callers (config validation) that
// want to reject an unrecognized logic string rather than silently
// defaulting it.
var ErrUnknownLogic = fmt.Errorf("triggers: logic must be AND or OR")

// ValidateLogic reports whether s is a recognized logic keyword.
func ValidateLogic(s string) error {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND", "OR", "":
		return nil
	default:
		return ErrUnknownLogic
	}
}
