package sensors

import "github.com/antsim/antsim/internal/environment"

// SpatialIndex is a per-tick, read-only snapshot of agent occupancy,
// shared across every sensor invoked in the same tick so that sensors
// doing proximity queries ("nearest food", "neighbors within radius")
// don't each rebuild the same position map.
//
// Grounded on antsim/core/sensors_runner.py's _ensure_spatial_index: the
// original builds a KD-tree when SciPy is available and falls back to a
// plain position map otherwise. The grid sizes this engine targets don't
// warrant a KD-tree dependency, so this is the plain-map path made
// permanent rather than a fallback.
type SpatialIndex struct {
	tick        int
	positionsOf map[environment.Position]string
}

// BuildSpatialIndex scans the agent registry once and returns a snapshot
// tagged with the tick it was built for.
func BuildSpatialIndex(env *environment.Environment, tick int) *SpatialIndex {
	agents := env.Agents.All()
	idx := &SpatialIndex{tick: tick, positionsOf: make(map[environment.Position]string, len(agents))}
	for _, a := range agents {
		idx.positionsOf[a.Position] = a.ID
	}
	return idx
}

// Tick reports which tick this index was built for.
func (idx *SpatialIndex) Tick() int { return idx.tick }

// AgentAt returns the id of the agent occupying pos, if any.
func (idx *SpatialIndex) AgentAt(pos environment.Position) (string, bool) {
	id, ok := idx.positionsOf[pos]
	return id, ok
}

// Neighbors returns the ids of agents within Chebyshev radius r of center
// (inclusive), excluding center itself.
func (idx *SpatialIndex) Neighbors(center environment.Position, r int) []string {
	var out []string
	for pos, id := range idx.positionsOf {
		if pos == center {
			continue
		}
		if environment.Chebyshev(center, pos) <= r {
			out = append(out, id)
		}
	}
	return out
}

// Count returns the number of agents captured in this index.
func (idx *SpatialIndex) Count() int { return len(idx.positionsOf) }
