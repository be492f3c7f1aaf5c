package executor

import (
	"testing"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/environment"
	"github.com/antsim/antsim/internal/intent"
	"github.com/antsim/antsim/internal/pheromone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, w, h int) *environment.Environment {
	t.Helper()
	grid, err := environment.NewGrid(w, h)
	require.NoError(t, err)
	field, err := pheromone.New(pheromone.Config{Width: w, Height: h, Types: []string{"food"}})
	require.NoError(t, err)
	return environment.New(grid, environment.NewRegistry(), field)
}

func TestApplyMoveByDelta(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewMoveDelta(1, 0)})

	require.Len(t, report.Executed, 1)
	assert.Empty(t, report.Rejected)
	assert.Equal(t, environment.Position{X: 3, Y: 2}, agent.Position)
}

func TestApplyMoveOutOfBoundsRejected(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 0, Y: 0})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewMoveDelta(-1, 0)})

	assert.Empty(t, report.Executed)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "out_of_bounds", report.Rejected[0].Reason)
}

func TestApplySecondMoveRejected(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{
		intent.NewMoveDelta(1, 0),
		intent.NewMoveDelta(0, 1),
	})

	require.Len(t, report.Executed, 1)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "move_already_done", report.Rejected[0].Reason)
}

func TestApplyMoveBlockedByOccupant(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	a1 := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	a2 := environment.New("w2", environment.KindWorker, environment.Position{X: 3, Y: 2})
	require.NoError(t, env.PlaceAgent(a1))
	require.NoError(t, env.PlaceAgent(a2))

	ex := New(nil, nil)
	report := ex.Apply(1, a1, env, []intent.Intent{intent.NewMoveTarget(environment.Position{X: 3, Y: 2})})

	assert.Empty(t, report.Executed)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "blocked", report.Rejected[0].Reason)
}

func TestApplyMoveTooFarRejected(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 0, Y: 0})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewMoveTarget(environment.Position{X: 3, Y: 3})})

	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "too_far", report.Rejected[0].Reason)
}

func TestApplyZeroDeltaMoveSucceeds(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewMoveDelta(0, 0)})

	require.Len(t, report.Executed, 1)
	assert.Equal(t, environment.Position{X: 2, Y: 2}, agent.Position)
}

func TestApplyFeedTransfersFromSocialStomach(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	feeder := environment.New("queen", environment.KindQueen, environment.Position{X: 0, Y: 0})
	target := environment.New("brood-1", environment.KindBrood, environment.Position{X: 0, Y: 1})
	require.NoError(t, env.PlaceAgent(feeder))
	require.NoError(t, env.PlaceAgent(target))

	feeder.Blackboard.Set("social_stomach", bbvalue.Int(50))
	feeder.Blackboard.Commit()
	target.Blackboard.Set("individual_stomach", bbvalue.Int(0))
	target.Blackboard.Set("individual_stomach_capacity", bbvalue.Int(20))
	target.Blackboard.Commit()

	ex := New(nil, nil)
	amount := 15
	report := ex.Apply(1, feeder, env, []intent.Intent{intent.NewFeed("brood-1", &amount)})

	require.Len(t, report.Executed, 1)
	v, _ := feeder.Blackboard.Get("social_stomach")
	remaining, _ := v.AsInt()
	assert.Equal(t, int64(35), remaining)

	tv, _ := target.Blackboard.Get("individual_stomach")
	received, _ := tv.AsInt()
	assert.Equal(t, int64(15), received)
}

func TestApplyFeedNoSocialFoodRejected(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	feeder := environment.New("queen", environment.KindQueen, environment.Position{X: 0, Y: 0})
	target := environment.New("brood-1", environment.KindBrood, environment.Position{X: 0, Y: 1})
	require.NoError(t, env.PlaceAgent(feeder))
	require.NoError(t, env.PlaceAgent(target))
	target.Blackboard.Set("individual_stomach_capacity", bbvalue.Int(20))
	target.Blackboard.Commit()

	ex := New(nil, nil)
	report := ex.Apply(1, feeder, env, []intent.Intent{intent.NewFeed("brood-1", nil)})

	assert.Empty(t, report.Executed)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "no_social_food", report.Rejected[0].Reason)
}

func TestApplyDepositPheromoneAtCurrentCell(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewDepositPheromone("food", 5, nil)})

	require.Len(t, report.Executed, 1)
	grid, ok := env.Pheromones.FieldFor("food")
	require.True(t, ok)
	assert.Equal(t, float32(0), grid.At(2, 2)) // staged, not yet swapped
}

func TestApplyCollectFoodFromCell(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))
	env.Grid.SetFood(environment.Position{X: 2, Y: 2}, 30)
	agent.Blackboard.Set("social_stomach_capacity", bbvalue.Int(20))
	agent.Blackboard.Commit()

	ex := New(nil, nil)
	amount := 10
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewCollectFood(environment.Position{X: 2, Y: 2}, amount)})

	require.Len(t, report.Executed, 1)
	v, _ := agent.Blackboard.Get("social_stomach")
	collected, _ := v.AsInt()
	assert.Equal(t, int64(10), collected)

	cell := env.Grid.At(environment.Position{X: 2, Y: 2})
	require.NotNil(t, cell.Food)
	assert.Equal(t, 20, cell.Food.Amount)
}

func TestApplyCollectFoodNoFoodRejected(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))
	agent.Blackboard.Set("social_stomach_capacity", bbvalue.Int(20))
	agent.Blackboard.Commit()

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewCollectFood(agent.Position, 10)})

	assert.Empty(t, report.Executed)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "no_food", report.Rejected[0].Reason)
}

func TestApplyCustomIntentIsNoop(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 0, Y: 0})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	report := ex.Apply(1, agent, env, []intent.Intent{intent.NewCustom("signal", map[string]any{"x": 1})})

	require.Len(t, report.Executed, 1)
}

func TestResetCycleClearsHasMoved(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	ex.Apply(1, agent, env, []intent.Intent{intent.NewMoveDelta(1, 0)})
	ex.ResetCycle(agent)

	v, _ := agent.Blackboard.Get(keyHasMoved)
	moved, _ := v.AsBool()
	assert.False(t, moved)
}

func TestAuditLogRecordsDispositions(t *testing.T) {
	env := newTestEnv(t, 5, 5)
	agent := environment.New("w1", environment.KindWorker, environment.Position{X: 2, Y: 2})
	require.NoError(t, env.PlaceAgent(agent))

	ex := New(nil, nil)
	ex.Apply(3, agent, env, []intent.Intent{intent.NewMoveDelta(1, 0)})

	events := ex.Audit().ForTick(3)
	require.Len(t, events, 1)
	assert.Equal(t, Executed, events[0].Outcome)
	assert.Equal(t, "w1", events[0].AgentID)
}
