package plugins

import (
	"github.com/antsim/antsim/internal/bbvalue"
	"github.com/antsim/antsim/internal/blackboard"
)

func getOr(bb *blackboard.Blackboard, key string, def bbvalue.Value) bbvalue.Value {
	return bb.GetOr(key, def)
}

// SocialStomachFull reports whether the social stomach is at or above
// 80% of capacity. Grounded on foraging_triggers.py's
// social_stomach_full.
func SocialStomachFull(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	social, _ := getOr(bb, "social_stomach", bbvalue.Int(0)).AsInt()
	capacity, _ := getOr(bb, "social_stomach_capacity", bbvalue.Int(100)).AsInt()
	threshold := float64(capacity) * 0.8
	return float64(social) >= threshold, nil
}

// SocialStomachEmpty reports whether the social stomach holds nothing.
// Grounded on foraging_triggers.py's social_stomach_empty.
func SocialStomachEmpty(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	social, _ := getOr(bb, "social_stomach", bbvalue.Int(0)).AsInt()
	return social <= 0, nil
}

// OutsideNest reports the negation of the "in_nest" blackboard flag.
// Grounded on foraging_triggers.py's outside_nest.
func OutsideNest(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	inNest, _ := getOr(bb, "in_nest", bbvalue.Bool(false)).AsBool()
	return !inNest, nil
}

// FoodDetected reports the "food_detected" blackboard flag set by the
// bb_food_detection sensor. Grounded on foraging_triggers.py's
// food_available_nearby.
func FoodDetected(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	detected, _ := getOr(bb, "food_detected", bbvalue.Bool(false)).AsBool()
	return detected, nil
}

// IsHungry reports whether energy has fallen below a threshold fraction
// of max_energy (default 0.5, overridable via a "threshold" param).
// Grounded on the queen/brood hunger-signaling condition in §4.7.
func IsHungry(bb *blackboard.Blackboard, params map[string]bbvalue.Value) (bool, error) {
	energy, _ := getOr(bb, "energy", bbvalue.Int(0)).AsInt()
	maxEnergy, _ := getOr(bb, "max_energy", bbvalue.Int(1)).AsInt()
	threshold := 0.5
	if t, ok := params["threshold"]; ok {
		if f, ok := t.AsFloat(); ok {
			threshold = f
		}
	}
	if maxEnergy == 0 {
		return false, nil
	}
	return float64(energy) < float64(maxEnergy)*threshold, nil
}
