// Package intent defines the tagged Intent variants a Step produces and
// the Intent Executor consumes. Intents are declarative requests to
// mutate the world; they never mutate anything themselves and are never
// persisted past the tick that created them.
//
// Grounded on the original antsim-flow executor's Intent dataclasses
// (antsim/core/executor.py: MoveIntent, FeedIntent,
// DepositPheromoneIntent, CustomIntent), consolidated into a single Go
// sum type per the design notes.
package intent

import (
	"strings"

	"github.com/antsim/antsim/internal/environment"
)

// Type discriminates an Intent's payload.
type Type string

const (
	Move              Type = "MOVE"
	Feed              Type = "FEED"
	DepositPheromone  Type = "PHEROMONE"
	CollectFood       Type = "COLLECT_FOOD"
)

// Intent is a tagged variant. Exactly one of the payload fields relevant
// to its Type is populated; Custom intents carry an arbitrary payload map
// under CustomPayload.
type Intent struct {
	Type Type

	// Move
	Target   *environment.Position
	Delta    *environment.Position
	HasDelta bool

	// Feed
	TargetAgentID string
	Amount        *int

	// DepositPheromone
	PType    string
	Strength int
	Position *environment.Position

	// CollectFood
	Source *environment.Position

	// Custom
	CustomName    string
	CustomPayload map[string]any
}

// NewMoveTarget creates a Move intent to an absolute position.
func NewMoveTarget(target environment.Position) Intent {
	return Intent{Type: Move, Target: &target}
}

// NewMoveDelta creates a Move intent by a relative offset.
func NewMoveDelta(dx, dy int) Intent {
	d := environment.Position{X: dx, Y: dy}
	return Intent{Type: Move, Delta: &d, HasDelta: true}
}

// NewFeed creates a Feed intent. A nil amount means "as much as possible".
func NewFeed(targetID string, amount *int) Intent {
	return Intent{Type: Feed, TargetAgentID: targetID, Amount: amount}
}

// NewDepositPheromone creates a DepositPheromone intent. A nil position
// means "the acting agent's current cell".
func NewDepositPheromone(ptype string, strength int, position *environment.Position) Intent {
	return Intent{Type: DepositPheromone, PType: ptype, Strength: strength, Position: position}
}

// NewCollectFood creates a CollectFood intent.
func NewCollectFood(source environment.Position, amount int) Intent {
	return Intent{Type: CollectFood, Source: &source, Amount: &amount}
}

// NewCustom creates a Custom intent routed to environment-specific
// handlers. Unknown custom names are no-ops by construction (the
// executor never rejects a Custom intent).
func NewCustom(name string, payload map[string]any) Intent {
	return Intent{Type: Type(strings.ToUpper(name)), CustomName: name, CustomPayload: payload}
}
