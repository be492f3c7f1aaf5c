package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/antsim/antsim/internal/tick"
)

// TickRecorder persists tick.Summary values to a Store, one record per
// tick, so a host can replay or chart a run after the fact without
// holding every Summary in memory for the run's duration.
type TickRecorder struct {
	store Store
}

// NewTickRecorder wraps store for tick diagnostics.
func NewTickRecorder(store Store) *TickRecorder {
	return &TickRecorder{store: store}
}

// Record persists one tick's summary.
func (r *TickRecorder) Record(ctx context.Context, summary tick.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("storage: marshaling tick %d summary: %w", summary.TickID, err)
	}
	return r.store.PutTick(ctx, summary.TickID, data)
}

// Tick retrieves a single recorded tick by id, or nil if it was never
// recorded (or has since been pruned).
func (r *TickRecorder) Tick(ctx context.Context, tickID int) (*tick.Summary, error) {
	data, err := r.store.GetTick(ctx, tickID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var summary tick.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("storage: unmarshaling tick %d summary: %w", tickID, err)
	}
	return &summary, nil
}

// Count returns how many tick summaries have been recorded.
func (r *TickRecorder) Count(ctx context.Context) (int, error) {
	return r.store.CountTicks(ctx)
}
