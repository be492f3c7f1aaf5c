// Package blackboard implements the per-agent key→value store with staged
// diff/commit semantics described in the data model. It is the only
// channel sensors, triggers, and steps communicate through: sensors write
// it, triggers read it, steps read it and may set a handful of per-tick
// progress keys, and the executor writes the outcome of applied intents
// back onto it.
package blackboard

import (
	"sync"

	"github.com/antsim/antsim/internal/bbvalue"
)

// Diff records a single key's value transition staged since the last
// commit.
type Diff struct {
	Old bbvalue.Value
	New bbvalue.Value
}

// Blackboard is a thread-safe map of string keys to bbvalue.Value with a
// staged change set that is only promoted on Commit.
type Blackboard struct {
	mu      sync.RWMutex
	data    map[string]bbvalue.Value
	staged  map[string]Diff
	agentID string
}

// New creates an empty Blackboard for the given agent id.
func New(agentID string) *Blackboard {
	return &Blackboard{
		data:    make(map[string]bbvalue.Value),
		staged:  make(map[string]Diff),
		agentID: agentID,
	}
}

// AgentID returns the owning agent's id.
func (b *Blackboard) AgentID() string { return b.agentID }

// Get retrieves the committed value for key. The second return value is
// false if the key has never been set.
func (b *Blackboard) Get(key string) (bbvalue.Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	return v, ok
}

// GetOr retrieves the committed value for key, or def if absent.
func (b *Blackboard) GetOr(key string, def bbvalue.Value) bbvalue.Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v, ok := b.data[key]; ok {
		return v
	}
	return def
}

// Has reports whether key currently has a committed value.
func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok
}

// Set stages a value change for key. If the new value equals the
// currently committed value, no staged entry is recorded — only a real
// change that changes the value gets a diff entry, per the blackboard
// invariant.
func (b *Blackboard) Set(key string, value bbvalue.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	old, existed := b.data[key]
	if existed && bbvalue.Equal(old, value) {
		return
	}
	if prev, staged := b.staged[key]; staged {
		old = prev.Old
	}
	b.staged[key] = Diff{Old: old, New: value}
	b.data[key] = value
}

// Update stages multiple key/value pairs at once.
func (b *Blackboard) Update(values map[string]bbvalue.Value) {
	for k, v := range values {
		b.Set(k, v)
	}
}

// Remove clears key from the committed state, staging a removal (new value
// is null).
func (b *Blackboard) Remove(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	old, existed := b.data[key]
	if !existed {
		return
	}
	if prev, staged := b.staged[key]; staged {
		old = prev.Old
	}
	b.staged[key] = Diff{Old: old, New: bbvalue.Null()}
	delete(b.data, key)
}

// Diff returns the staged changes accumulated since the last Commit or
// Rollback, without clearing them.
func (b *Blackboard) Diff() map[string]Diff {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]Diff, len(b.staged))
	for k, v := range b.staged {
		out[k] = v
	}
	return out
}

// Commit promotes the staged change set (already live in data, since Set
// applies eagerly) and returns it, then clears the staging area. A second
// call to Commit with no intervening Set returns an empty diff — commits
// are idempotent.
func (b *Blackboard) Commit() map[string]Diff {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.staged
	b.staged = make(map[string]Diff)
	return out
}

// Rollback discards the staged change set, reverting data to the values it
// held before those changes were staged.
func (b *Blackboard) Rollback() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, d := range b.staged {
		if d.Old.IsNull() {
			delete(b.data, k)
			continue
		}
		b.data[k] = d.Old
	}
	b.staged = make(map[string]Diff)
}

// Keys returns all committed keys.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.data))
	for k := range b.data {
		out = append(out, k)
	}
	return out
}

// Snapshot exports the entire committed state as plain Go values, suitable
// for JSON encoding or diagnostics.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]any, len(b.data))
	for k, v := range b.data {
		out[k] = v.ToAny()
	}
	return out
}

// Clear removes all committed and staged state.
func (b *Blackboard) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string]bbvalue.Value)
	b.staged = make(map[string]Diff)
}
