// Package storage provides an optional persistence layer for simulation
// diagnostics: per-tick summaries (pheromone mass deltas, agent outcome
// counts, births and deaths) that a long-running simulation can replay
// or chart after the fact. The engine itself never depends on this
// package — a host wires a Store in only when it wants a durable record
// of what happened, tick by tick.
//
// Store is the persistence interface TickRecorder (diagnostics.go)
// builds on; SQLiteStore is the default implementation using pure-Go
// SQLite (modernc.org/sqlite), one row per recorded tick, keyed by the
// integer tick id rather than a generic string key — ticks are the
// natural unit of this domain's range scans, not documents.
package storage

import "context"

// Store is the tick-diagnostics persistence interface TickRecorder
// builds on.
type Store interface {
	// PutTick stores (or overwrites) the JSON-encoded summary for tickID.
	PutTick(ctx context.Context, tickID int, summaryJSON []byte) error

	// GetTick retrieves a tick's summary JSON. Returns nil if the tick was
	// never recorded.
	GetTick(ctx context.Context, tickID int) ([]byte, error)

	// ListTickIDs returns recorded tick ids at or above sinceTickID, in
	// ascending order, capped at limit.
	ListTickIDs(ctx context.Context, sinceTickID, limit int) ([]int, error)

	// CountTicks returns the total number of recorded ticks.
	CountTicks(ctx context.Context) (int, error)

	// Close shuts down the store.
	Close() error
}
