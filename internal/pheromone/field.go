// Package pheromone implements the multi-layer, double-buffered scalar
// pheromone field: per-type front/back/deposit grids, 4-neighbor diffusion
// with Neumann (no-flux) boundaries, uniform evaporation, and an atomic
// per-tick publish via update-and-swap.
//
// Grounded on the original antsim-flow PheromoneField
// (antsim/core/engine/pheromones.py): the same buffer names, the same
// deposit-tolerance rules, and the same diffusion/evaporation order of
// operations, reimplemented without NumPy using flat float32 grids.
package pheromone

import (
	"fmt"
	"sort"
)

// Grid is a read-only view over one type's front buffer. Index with
// At(x, y); do not retain a Grid across a call to Field.UpdateAndSwap, as
// the buffer it wraps is rotated out at that point.
type Grid struct {
	width, height int
	data          []float32
}

// At returns the value at (x, y). Out-of-bounds coordinates return 0.
func (g Grid) At(x, y int) float32 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0
	}
	return g.data[y*g.width+x]
}

// Width and Height report the grid's dimensions.
func (g Grid) Width() int  { return g.width }
func (g Grid) Height() int { return g.height }

// Stats summarizes a type's front buffer.
type Stats struct {
	Min, Max, Sum, Mean float64
}

// TickSummary reports the per-type mass transition of one update-and-swap.
type TickSummary struct {
	MassBefore float64
	MassAfter  float64
	Deposited  float64
}

type layer struct {
	front, back, deposit []float32
}

// Field holds one W×H grid per pheromone type plus the global diffusion
// and evaporation parameters.
type Field struct {
	width, height     int
	evaporation       float64
	alpha             float64
	allowDynamicTypes bool
	layers            map[string]*layer
}

// Config carries the global parameters a Field is constructed with.
type Config struct {
	Width, Height     int
	Types             []string
	Evaporation       float64
	Alpha             float64
	AllowDynamicTypes bool
}

// New creates a Field with the given types pre-allocated. Width and Height
// must be positive.
func New(cfg Config) (*Field, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("pheromone: invalid field size %dx%d", cfg.Width, cfg.Height)
	}
	f := &Field{
		width:             cfg.Width,
		height:            cfg.Height,
		evaporation:       cfg.Evaporation,
		alpha:             cfg.Alpha,
		allowDynamicTypes: cfg.AllowDynamicTypes,
		layers:            make(map[string]*layer),
	}
	for _, t := range cfg.Types {
		f.allocType(t)
	}
	return f, nil
}

func (f *Field) allocType(ptype string) {
	if _, ok := f.layers[ptype]; ok {
		return
	}
	n := f.width * f.height
	f.layers[ptype] = &layer{
		front:   make([]float32, n),
		back:    make([]float32, n),
		deposit: make([]float32, n),
	}
}

// AddType allocates a new pheromone type. Idempotent.
func (f *Field) AddType(ptype string) {
	f.allocType(ptype)
}

// Types returns the currently allocated pheromone types, sorted.
func (f *Field) Types() []string {
	out := make([]string, 0, len(f.layers))
	for t := range f.layers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// FieldFor returns a read-only view of a type's front buffer. Returns
// false if the type is unknown.
func (f *Field) FieldFor(ptype string) (Grid, bool) {
	l, ok := f.layers[ptype]
	if !ok {
		return Grid{}, false
	}
	return Grid{width: f.width, height: f.height, data: l.front}, true
}

// Deposit stages amount at (x, y) for type ptype. Out-of-bounds positions
// and non-positive amounts are silently dropped, matching the original
// implementation's tolerance. If ptype is unknown and AllowDynamicTypes is
// set, the type is allocated lazily; otherwise an error is returned.
func (f *Field) Deposit(ptype string, x, y int, amount float64) error {
	if amount <= 0 {
		return nil
	}
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return nil
	}
	l, ok := f.layers[ptype]
	if !ok {
		if !f.allowDynamicTypes {
			return fmt.Errorf("pheromone: unknown type %q", ptype)
		}
		f.allocType(ptype)
		l = f.layers[ptype]
	}
	l.deposit[y*f.width+x] += float32(amount)
	return nil
}

// UpdateAndSwap runs diffusion, adds staged deposits, evaporates, clamps to
// non-negative, and swaps front/back for every type. It must run exactly
// once per tick, after all agents' intents have been applied. Returns a
// per-type mass summary for tests and diagnostics.
func (f *Field) UpdateAndSwap() (map[string]TickSummary, error) {
	if err := f.validateParams(); err != nil {
		return nil, err
	}
	summary := make(map[string]TickSummary, len(f.layers))
	for _, ptype := range f.Types() {
		l := f.layers[ptype]
		massBefore := sum64(l.front)

		f.diffuseInto(l.front, l.back)
		var deposited float64
		for i, d := range l.deposit {
			l.back[i] += d
			deposited += float64(d)
		}
		if f.evaporation > 0 {
			factor := float32(1.0 - f.evaporation)
			for i := range l.back {
				l.back[i] *= factor
			}
		}
		for i, v := range l.back {
			if v < 0 {
				l.back[i] = 0
			}
		}

		summary[ptype] = TickSummary{
			MassBefore: massBefore,
			MassAfter:  sum64(l.back),
			Deposited:  deposited,
		}
	}

	for _, l := range f.layers {
		l.front, l.back = l.back, l.front
		zero(l.back)
		zero(l.deposit)
	}
	return summary, nil
}

// Stats reports min/max/sum/mean over each type's current front buffer.
func (f *Field) Stats() map[string]Stats {
	out := make(map[string]Stats, len(f.layers))
	for ptype, l := range f.layers {
		if len(l.front) == 0 {
			out[ptype] = Stats{}
			continue
		}
		min, max := float64(l.front[0]), float64(l.front[0])
		var s float64
		for _, v := range l.front {
			fv := float64(v)
			s += fv
			if fv < min {
				min = fv
			}
			if fv > max {
				max = fv
			}
		}
		out[ptype] = Stats{Min: min, Max: max, Sum: s, Mean: s / float64(len(l.front))}
	}
	return out
}

func (f *Field) validateParams() error {
	if f.evaporation < 0 || f.evaporation >= 1 {
		return fmt.Errorf("pheromone: evaporation must be in [0,1), got %v", f.evaporation)
	}
	if f.alpha < 0 || f.alpha > 0.25 {
		return fmt.Errorf("pheromone: alpha must be in [0,0.25], got %v", f.alpha)
	}
	return nil
}

// diffuseInto computes the 4-neighbor diffusion stencil from front into
// back, with Neumann (edge-replicate) boundaries:
//
//	back[y,x] = (1-4a)*front[y,x] + a*(up+down+left+right)
func (f *Field) diffuseInto(front, back []float32) {
	a := float32(f.alpha)
	center := 1 - 4*a
	w, h := f.width, f.height
	for y := 0; y < h; y++ {
		up, down := y-1, y+1
		if up < 0 {
			up = 0
		}
		if down >= h {
			down = h - 1
		}
		for x := 0; x < w; x++ {
			left, right := x-1, x+1
			if left < 0 {
				left = 0
			}
			if right >= w {
				right = w - 1
			}
			v := front[y*w+x]
			neighbors := front[up*w+x] + front[down*w+x] + front[y*w+left] + front[y*w+right]
			back[y*w+x] = center*v + a*neighbors
		}
	}
}

func sum64(xs []float32) float64 {
	var s float64
	for _, v := range xs {
		s += float64(v)
	}
	return s
}

func zero(xs []float32) {
	for i := range xs {
		xs[i] = 0
	}
}
