package environment

import (
	"fmt"

	"github.com/antsim/antsim/internal/pheromone"
)

// Environment bundles the grid, the agent registry, and the pheromone
// field — the full mutable world state. Per the concurrency model (§5),
// the Environment is exclusively owned by the Tick Engine; the Executor
// mutates it on the engine's behalf, and sensors/triggers only ever read
// it.
type Environment struct {
	Grid       *Grid
	Agents     *Registry
	Pheromones *pheromone.Field

	EntryPositions []Position
}

// New creates an Environment from its three constituent parts.
func New(grid *Grid, agents *Registry, pheromones *pheromone.Field) *Environment {
	return &Environment{Grid: grid, Agents: agents, Pheromones: pheromones}
}

// Width and Height report the grid's dimensions.
func (e *Environment) Width() int  { return e.Grid.Width }
func (e *Environment) Height() int { return e.Grid.Height }

// PlaceAgent registers a into the agent registry and installs it as the
// occupant of its current cell. Used by the initial population factory
// and by egg-laying/maturation to introduce new agents mid-run. Returns
// an error if the position is out of bounds, already occupied, or a
// wall.
func (e *Environment) PlaceAgent(a *Agent) error {
	cell := e.Grid.At(a.Position)
	if cell == nil {
		return fmt.Errorf("environment: place agent %q out of bounds at %v", a.ID, a.Position)
	}
	if cell.Kind == CellWall {
		return fmt.Errorf("environment: cannot place agent %q on a wall at %v", a.ID, a.Position)
	}
	if cell.Occupant != "" {
		return fmt.Errorf("environment: cell %v already occupied by %q", a.Position, cell.Occupant)
	}
	if err := e.Agents.Register(a); err != nil {
		return err
	}
	cell.Occupant = a.ID
	return nil
}

// RemoveAgent unregisters an agent and clears its cell's occupant. Used
// on starvation death and on brood maturation (the brood is replaced by
// a worker at the same cell).
func (e *Environment) RemoveAgent(id string) {
	a, ok := e.Agents.Get(id)
	if !ok {
		return
	}
	if cell := e.Grid.At(a.Position); cell != nil && cell.Occupant == id {
		cell.Occupant = ""
	}
	e.Agents.Remove(id)
}

// Relocate moves an agent's occupancy from its current cell to target,
// without any validation of its own — only internal/executor is
// authorized to call this, and only after checking bounds, walls, and
// occupancy per the spec's Move invariants. It exists so that the
// one-move atomicity invariant ("no intermediate tick state is visible")
// is a single assignment pair, not spread across caller code.
func (e *Environment) Relocate(a *Agent, target Position) {
	if old := e.Grid.At(a.Position); old != nil && old.Occupant == a.ID {
		old.Occupant = ""
	}
	a.Position = target
	if cell := e.Grid.At(target); cell != nil {
		cell.Occupant = a.ID
	}
}
