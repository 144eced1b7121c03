package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepRewardSign(t *testing.T) {
	target := NewBox(10, 10, 90, 90)
	far := NewBox(0, 0, 20, 20)
	near := NewBox(5, 5, 85, 85)

	assert.Equal(t, 1.0, StepReward(near, far, target))
	assert.Equal(t, -1.0, StepReward(far, near, target))
}

// A move that leaves the overlap unchanged is penalized, never
// rewarded zero.
func TestStepRewardZeroDelta(t *testing.T) {
	target := NewBox(10, 10, 90, 90)
	b := NewBox(0, 0, 50, 50)

	assert.Equal(t, -1.0, StepReward(b, b, target))

	// Two disjoint positions have equal (zero) overlap
	a := NewBox(0, 0, 5, 5)
	c := NewBox(95, 95, 100, 100)
	assert.Equal(t, -1.0, StepReward(c, a, target))
}

func TestTriggerRewardBoundaryInclusive(t *testing.T) {
	nu := 3.0

	// IoU of these boxes is exactly 0.5: 50x100 overlap, union 10000
	target := NewBox(0, 0, 100, 100)
	half := NewBox(0, 0, 50, 100)
	assert.InDelta(t, 0.5, IoU(half, target), 1e-12)

	assert.Equal(t, nu, TriggerReward(half, target, 0.5, nu))
	assert.Equal(t, -nu, TriggerReward(half, target, 0.5+1e-9, nu))
	assert.Equal(t, nu, TriggerReward(target, target, 1.0, nu))
	assert.Equal(t, -nu, TriggerReward(NewBox(0, 0, 1, 1), target, 0.5, nu))
}
