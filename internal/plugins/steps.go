// Package plugins provides a representative set of built-in step,
// trigger, and sensor implementations for the plugin registry — enough
// for a worker to forage, return food to the nest, and feed the queen,
// and for a queen to signal hunger. A host config is free to register
// its own plugins alongside or instead of these.
//
// Grounded on antsim/plugins/basic_steps.py, navigation_steps.py,
// queen_steps.py, and foraging_steps.py: the same pure, intent-producing
// step shape (read worker/environment/blackboard, never mutate either),
// reimplemented against the typed Step interface instead of pluggy
// hookimpls returning bare dicts.
package plugins

import (
	"context"
	"math/rand"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/intent"
	"github.com/antsim/antsim/internal/registry"
)

var neighbors8 = []environment.Position{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// DoNothing succeeds without producing any intent. Grounded on
// basic_steps.py's do_nothing.
func DoNothing(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	return registry.StepResult{Status: registry.Success}, nil
}

// RandomMove proposes one random valid move in the 8-neighborhood,
// skipping walls and occupied cells. If no neighbor is free it succeeds
// without moving, matching the original's "fallback to any valid move,
// else stay put" behavior. Grounded on basic_steps.py's random_move.
func RandomMove(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	order := rand.Perm(len(neighbors8))
	for _, i := range order {
		d := neighbors8[i]
		target := environment.Position{X: agent.Position.X + d.X, Y: agent.Position.Y + d.Y}
		if !env.Grid.InBounds(target) || env.Grid.IsWall(target) || env.Grid.IsOccupied(target) {
			continue
		}
		return registry.StepResult{Status: registry.Running, Intents: []intent.Intent{intent.NewMoveTarget(target)}}, nil
	}
	return registry.StepResult{Status: registry.Success}, nil
}

// MoveToEntry takes one Chebyshev step towards the nearest configured
// entry position. Grounded on navigation_steps.py's move_to_entry_step.
func MoveToEntry(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	if len(env.EntryPositions) == 0 {
		return registry.StepResult{Status: registry.Failure}, nil
	}
	target := nearestPosition(agent.Position, env.EntryPositions)
	step := stepTowards(agent.Position, target)
	if step == (environment.Position{}) {
		return registry.StepResult{Status: registry.Success}, nil
	}
	return registry.StepResult{Status: registry.Running, Intents: []intent.Intent{intent.NewMoveDelta(step.X, step.Y)}}, nil
}

// FeedQueen produces a Feed intent for the queen at paramTargetID when
// adjacent and the worker's social stomach is non-empty. Grounded on
// queen_steps.py's feed_queen_step.
func FeedQueen(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	queenID, ok := params["queen_id"]
	if !ok {
		return registry.StepResult{Status: registry.Failure}, nil
	}
	id, _ := queenID.AsString()
	queen, ok := env.Agents.Get(id)
	if !ok {
		return registry.StepResult{Status: registry.Failure}, nil
	}
	if environment.Chebyshev(agent.Position, queen.Position) > 1 {
		return registry.StepResult{Status: registry.Failure}, nil
	}
	social, _ := agent.Blackboard.GetOr("social_stomach", bbvalue.Int(0)).AsInt()
	if social <= 0 {
		return registry.StepResult{Status: registry.Failure}, nil
	}
	return registry.StepResult{Status: registry.Success, Intents: []intent.Intent{intent.NewFeed(id, nil)}}, nil
}

// Idle always succeeds, producing no intents. Grounded on
// queen_steps.py's idle_step.
func Idle(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	return registry.StepResult{Status: registry.Success}, nil
}

// CollectNearestFood issues a CollectFood intent at the nearest cell
// bearing a positive food amount within Chebyshev radius 1, or fails if
// none is adjacent. Grounded on foraging_steps.py's collection flow,
// simplified to a single-cell radius since the full original also
// handles multi-step approach via a separate navigation step.
func CollectNearestFood(ctx context.Context, agent *environment.Agent, env *environment.Environment, params map[string]bbvalue.Value) (registry.StepResult, error) {
	for _, d := range append([]environment.Position{{}}, neighbors8...) {
		pos := environment.Position{X: agent.Position.X + d.X, Y: agent.Position.Y + d.Y}
		cell := env.Grid.At(pos)
		if cell == nil || cell.Food == nil || cell.Food.Amount <= 0 {
			continue
		}
		return registry.StepResult{Status: registry.Running, Intents: []intent.Intent{intent.NewCollectFood(pos, 10)}}, nil
	}
	return registry.StepResult{Status: registry.Failure}, nil
}

func nearestPosition(from environment.Position, candidates []environment.Position) environment.Position {
	best := candidates[0]
	bestDist := environment.Chebyshev(from, best)
	for _, c := range candidates[1:] {
		if d := environment.Chebyshev(from, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func stepTowards(from, to environment.Position) environment.Position {
	d := environment.Position{}
	if to.X > from.X {
		d.X = 1
	} else if to.X < from.X {
		d.X = -1
	}
	if to.Y > from.Y {
		d.Y = 1
	} else if to.Y < from.Y {
		d.Y = -1
	}
	return d
}
