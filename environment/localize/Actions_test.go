package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testWidth  = 100.0
	testHeight = 100.0
)

// TestTransformTable checks every geometric action against a box whose
// step sizes are easy to compute by hand: an 80x80 box with alpha 0.2
// moves 16 pixels per action.
func TestTransformTable(t *testing.T) {
	b := NewBox(10, 10, 90, 90)

	tests := []struct {
		action int
		want   Box
	}{
		{ActionRight, NewBox(26, 10, 100, 90)},
		{ActionLeft, NewBox(0, 10, 74, 90)},
		{ActionUp, NewBox(10, 0, 90, 74)},
		{ActionDown, NewBox(10, 26, 90, 100)},
		{ActionBigger, NewBox(0, 0, 100, 100)},
		{ActionSmaller, NewBox(26, 26, 74, 74)},
		{ActionFatter, NewBox(10, 26, 90, 74)},
		{ActionTaller, NewBox(26, 10, 74, 90)},
	}

	for _, test := range tests {
		got := Transform(b, test.action, 0.2, testWidth, testHeight)
		assert.Equal(t, test.want, got, "action %d", test.action)
	}
}

func TestTransformClampsToImage(t *testing.T) {
	full := NewBox(0, 0, testWidth, testHeight)

	for action := ActionRight; action < ActionTrigger; action++ {
		got := Transform(full, action, 0.2, testWidth, testHeight)
		assert.GreaterOrEqual(t, got.XMin, 0.0)
		assert.GreaterOrEqual(t, got.YMin, 0.0)
		assert.LessOrEqual(t, got.XMax, testWidth)
		assert.LessOrEqual(t, got.YMax, testHeight)
	}

	// Growing a full-extent box changes nothing
	assert.Equal(t, full, Transform(full, ActionBigger, 0.2, testWidth,
		testHeight))
}

func TestTransformStepProportionalToBox(t *testing.T) {
	small := NewBox(40, 40, 50, 50)

	got := Transform(small, ActionRight, 0.2, testWidth, testHeight)
	assert.Equal(t, NewBox(42, 40, 52, 50), got)
}

// A contraction with alpha >= 0.5 crosses the box's own edges, which
// per-coordinate clamping cannot repair.
func TestTransformCanInvertBox(t *testing.T) {
	b := NewBox(10, 10, 90, 90)

	got := Transform(b, ActionSmaller, 0.6, testWidth, testHeight)
	assert.Greater(t, got.XMin, got.XMax)
	assert.Greater(t, got.YMin, got.YMax)

	repaired, swapped := got.Canonical()
	assert.True(t, swapped)
	assert.LessOrEqual(t, repaired.XMin, repaired.XMax)
	assert.LessOrEqual(t, repaired.YMin, repaired.YMax)
}

func TestTransformPanicsOnTrigger(t *testing.T) {
	b := NewBox(10, 10, 90, 90)

	assert.Panics(t, func() {
		Transform(b, ActionTrigger, 0.2, testWidth, testHeight)
	})
	assert.Panics(t, func() {
		Transform(b, -1, 0.2, testWidth, testHeight)
	})
}
