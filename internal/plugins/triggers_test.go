package plugins

import (
	"testing"

	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/blackboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialStomachFullAtThreshold(t *testing.T) {
	bb := blackboard.New("w1")
	bb.Set("social_stomach", bbvalue.Int(80))
	bb.Set("social_stomach_capacity", bbvalue.Int(100))

	full, err := SocialStomachFull(bb, nil)
	require.NoError(t, err)
	assert.True(t, full)
}

func TestSocialStomachFullBelowThreshold(t *testing.T) {
	bb := blackboard.New("w1")
	bb.Set("social_stomach", bbvalue.Int(10))
	bb.Set("social_stomach_capacity", bbvalue.Int(100))

	full, err := SocialStomachFull(bb, nil)
	require.NoError(t, err)
	assert.False(t, full)
}

func TestSocialStomachEmpty(t *testing.T) {
	bb := blackboard.New("w1")
	empty, err := SocialStomachEmpty(bb, nil)
	require.NoError(t, err)
	assert.True(t, empty)

	bb.Set("social_stomach", bbvalue.Int(1))
	empty, err = SocialStomachEmpty(bb, nil)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestOutsideNestIsNegationOfInNestFlag(t *testing.T) {
	bb := blackboard.New("w1")
	outside, err := OutsideNest(bb, nil)
	require.NoError(t, err)
	assert.True(t, outside)

	bb.Set("in_nest", bbvalue.Bool(true))
	outside, err = OutsideNest(bb, nil)
	require.NoError(t, err)
	assert.False(t, outside)
}

func TestFoodDetectedReflectsBlackboardFlag(t *testing.T) {
	bb := blackboard.New("w1")
	detected, err := FoodDetected(bb, nil)
	require.NoError(t, err)
	assert.False(t, detected)

	bb.Set("food_detected", bbvalue.Bool(true))
	detected, err = FoodDetected(bb, nil)
	require.NoError(t, err)
	assert.True(t, detected)
}

func TestIsHungryUsesDefaultThreshold(t *testing.T) {
	bb := blackboard.New("q1")
	bb.Set("energy", bbvalue.Int(40))
	bb.Set("max_energy", bbvalue.Int(100))

	hungry, err := IsHungry(bb, nil)
	require.NoError(t, err)
	assert.True(t, hungry)

	bb.Set("energy", bbvalue.Int(60))
	hungry, err = IsHungry(bb, nil)
	require.NoError(t, err)
	assert.False(t, hungry)
}

func TestIsHungryHonorsCustomThreshold(t *testing.T) {
	bb := blackboard.New("q1")
	bb.Set("energy", bbvalue.Int(70))
	bb.Set("max_energy", bbvalue.Int(100))

	params := map[string]bbvalue.Value{"threshold": bbvalue.Float(0.8)}
	hungry, err := IsHungry(bb, params)
	require.NoError(t, err)
	assert.True(t, hungry)
}
