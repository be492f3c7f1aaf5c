package blackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antsim/antsim/internal/bbvalue"
)

func TestSetRecordsDiffOnlyOnChange(t *testing.T) {
	bb := New("ant-1")
	bb.Set("energy", bbvalue.Int(10))
	diff := bb.Diff()
	require.Len(t, diff, 1)
	assert.True(t, diff["energy"].Old.IsNull())
	v, _ := diff["energy"].New.AsInt()
	assert.Equal(t, int64(10), v)

	// Setting the same value again must not add a new diff entry.
	bb.Set("energy", bbvalue.Int(10))
	assert.Len(t, bb.Diff(), 1)
}

func TestCommitIsIdempotent(t *testing.T) {
	bb := New("ant-1")
	bb.Set("energy", bbvalue.Int(5))

	first := bb.Commit()
	assert.Len(t, first, 1)

	second := bb.Commit()
	assert.Empty(t, second)
}

func TestRollbackDiscardsStagedChanges(t *testing.T) {
	bb := New("ant-1")
	bb.Set("energy", bbvalue.Int(5))
	bb.Commit()

	bb.Set("energy", bbvalue.Int(99))
	bb.Rollback()

	v, ok := bb.Get("energy")
	require.True(t, ok)
	i, _ := v.AsInt()
	assert.Equal(t, int64(5), i)
	assert.Empty(t, bb.Diff())
}

func TestGetOrDefault(t *testing.T) {
	bb := New("ant-1")
	v := bb.GetOr("missing", bbvalue.Bool(true))
	b, _ := v.AsBool()
	assert.True(t, b)
}

func TestSnapshotExportsPlainValues(t *testing.T) {
	bb := New("ant-1")
	bb.Set("has_moved", bbvalue.Bool(true))
	bb.Set("position", bbvalue.List([]bbvalue.Value{bbvalue.Int(1), bbvalue.Int(2)}))
	snap := bb.Snapshot()
	assert.Equal(t, true, snap["has_moved"])
	assert.Equal(t, []any{int64(1), int64(2)}, snap["position"])
}
