package environment

import "github.com/antsim/antsim/internal/blackboard"

// Kind identifies which of the three agent variants an Agent is.
type Kind string

const (
	KindQueen  Kind = "QUEEN"
	KindWorker Kind = "WORKER"
	KindBrood  Kind = "BROOD"
)

// Agent is the common capability set shared by queens, workers, and
// brood: an id, a position, an owned blackboard, and a kind discriminator.
// Domain-specific state (energy, social stomach, egg counters, growth) is
// intentionally not modeled as further Go struct fields — exactly like
// the original antsim-flow agents, it lives on the blackboard so that
// sensors and steps can evolve it without the engine's agent type needing
// to change shape. The tick engine's lifecycle logic (§4.7) reads and
// writes those blackboard keys directly; see internal/tick/lifecycle.go.
type Agent struct {
	ID         string
	Kind       Kind
	Position   Position
	Blackboard *blackboard.Blackboard
}

// New creates an Agent with a freshly constructed Blackboard.
func New(id string, kind Kind, pos Position) *Agent {
	return &Agent{
		ID:         id,
		Kind:       kind,
		Position:   pos,
		Blackboard: blackboard.New(id),
	}
}
