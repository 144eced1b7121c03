package localize

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golocate/golocate/feature"
	ts "github.com/golocate/golocate/timestep"
)

// testImage draws a 100x100 scene with a bright square over the target
// region
func testImage(target Box) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Gray{Y: 40}},
		image.Point{}, draw.Src)

	region := image.Rect(int(target.XMin), int(target.YMin),
		int(target.XMax), int(target.YMax))
	draw.Draw(img, region, &image.Uniform{color.White}, image.Point{},
		draw.Src)
	return img
}

// testConfig returns a configuration small enough for fast tests
func testConfig() Config {
	config := DefaultConfig()
	config.TargetSize = 32
	return config
}

func testEnv(t *testing.T, config Config) (*Env, ts.TimeStep) {
	target := NewBox(25, 25, 75, 75)
	img := testImage(target)

	extractor, err := feature.NewMeanPool(4)
	require.NoError(t, err)

	env, firstStep, err := New(img, img, target, extractor, config)
	require.NoError(t, err)
	return env, firstStep
}

func TestNewRequiresExtractor(t *testing.T) {
	target := NewBox(25, 25, 75, 75)
	_, _, err := New(testImage(target), nil, target, nil, testConfig())
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		field  string
		modify func(*Config)
	}{
		{"MaxSteps", func(c *Config) { c.MaxSteps = 0 }},
		{"Alpha", func(c *Config) { c.Alpha = 0 }},
		{"Alpha", func(c *Config) { c.Alpha = -0.2 }},
		{"Threshold", func(c *Config) { c.Threshold = 1.5 }},
		{"Threshold", func(c *Config) { c.Threshold = -0.1 }},
		{"TargetSize", func(c *Config) { c.TargetSize = 0 }},
		{"Discount", func(c *Config) { c.Discount = 2 }},
	}

	for _, test := range tests {
		config := testConfig()
		test.modify(&config)

		var configErr *ConfigError
		err := config.Validate()
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, test.field, configErr.Field)
	}

	assert.NoError(t, testConfig().Validate())
}

func TestFirstStep(t *testing.T) {
	env, firstStep := testEnv(t, testConfig())
	defer env.Close()

	assert.True(t, firstStep.First())
	assert.Equal(t, 0, firstStep.Number)

	// Box starts at the full image extents
	assert.Equal(t, NewBox(0, 0, 100, 100), env.Box())

	// Observation is the feature embedding followed by the flattened
	// history
	wantLen := 16 + HistoryRows*NumActions
	assert.Equal(t, wantLen, firstStep.Observation.Len())
	assert.Equal(t, wantLen, env.ObservationSpec().Shape.Len())

	// The history half starts all-sentinel
	assert.Equal(t, Sentinel, firstStep.Observation.AtVec(16))
}

func TestInvalidAction(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	for _, action := range []int{-1, NumActions, 100} {
		_, _, err := env.Step(action)

		var invalidErr *InvalidActionError
		require.True(t, errors.As(err, &invalidErr))
		assert.Equal(t, action, invalidErr.Action)
	}
}

func TestStepShapingReward(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	// Shrinking the full box toward the centered target improves the
	// overlap
	step, info, err := env.Step(ActionSmaller)
	require.NoError(t, err)
	assert.Equal(t, 1.0, step.Reward)
	assert.True(t, step.Mid())
	assert.Equal(t, 1, info.StepCount)
	assert.Equal(t, 1.0, info.CumulativeReward)
}

// Repeated shrinking first improves the overlap, then overshoots: the
// box passes through the target's extent and keeps contracting inside
// it, so the shaping reward flips sign and stays negative.
func TestShrinkSequenceRewardFlips(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	wantRewards := []float64{1, -1, -1}
	lastIoU := IoU(env.Box(), env.Target())

	for i, want := range wantRewards {
		step, info, err := env.Step(ActionSmaller)
		require.NoError(t, err)
		assert.Equal(t, want, step.Reward, "shrink %d", i+1)

		if want > 0 {
			assert.Greater(t, info.IoU, lastIoU)
		} else {
			assert.Less(t, info.IoU, lastIoU)
		}
		lastIoU = info.IoU
	}
}

func TestInfoEchoesTransform(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	_, info, err := env.Step(ActionSmaller)
	require.NoError(t, err)
	require.NotNil(t, info.Transform)

	// The echoed transform is the resize applied before feature
	// extraction
	resized, err := info.Transform(testImage(env.Target()))
	require.NoError(t, err)
	assert.Equal(t, info.TargetSize, resized.Bounds().Dx())
	assert.Equal(t, info.TargetSize, resized.Bounds().Dy())
}

func TestStepNoImprovementPenalized(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	// Growing the full-extent box clamps straight back to it, so the
	// overlap cannot change
	step, info, err := env.Step(ActionBigger)
	require.NoError(t, err)
	assert.Equal(t, -1.0, step.Reward)
	assert.Equal(t, NewBox(0, 0, 100, 100), info.Box)
}

func TestStepLimitEndsEpisode(t *testing.T) {
	config := testConfig()
	config.MaxSteps = 3

	env, _ := testEnv(t, config)
	defer env.Close()

	for i := 0; i < 2; i++ {
		step, info, err := env.Step(ActionLeft)
		require.NoError(t, err)
		assert.True(t, step.Mid())
		assert.False(t, info.Terminated)
		assert.False(t, info.Truncated)
		assert.Equal(t, 0, info.NumEpisodes)
	}

	step, info, err := env.Step(ActionLeft)
	require.NoError(t, err)
	assert.True(t, step.Last())
	assert.True(t, step.Truncated())

	// The step limit trips both flags at once, and the episode counter
	// moves exactly once
	assert.True(t, info.Terminated)
	assert.True(t, info.Truncated)
	assert.Equal(t, 1, info.NumEpisodes)
	assert.Equal(t, 1, env.Episodes())
}

func TestTriggerTerminates(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	// Full box over the 50x50 target has IoU 0.25, under the 0.5
	// threshold
	step, info, err := env.Step(ActionTrigger)
	require.NoError(t, err)
	assert.True(t, step.Last())
	assert.True(t, step.Terminated())
	assert.False(t, step.Truncated())
	assert.Equal(t, -DefaultNu, step.Reward)

	assert.True(t, info.Terminated)
	assert.False(t, info.Truncated)
	assert.Equal(t, 1, info.NumEpisodes)

	// The trigger is logged in the history like any other action
	assert.Equal(t, 1.0, info.ActionsHistory[0][ActionTrigger])
}

func TestTriggerRewardPositive(t *testing.T) {
	config := testConfig()
	config.Threshold = 0.2

	env, _ := testEnv(t, config)
	defer env.Close()

	step, _, err := env.Step(ActionTrigger)
	require.NoError(t, err)
	assert.Equal(t, DefaultNu, step.Reward)
}

// Firing the trigger on the final permitted step terminates by
// trigger: the step-limit check must not overwrite it with truncation.
func TestTriggerStickyAtStepLimit(t *testing.T) {
	config := testConfig()
	config.MaxSteps = 1

	env, _ := testEnv(t, config)
	defer env.Close()

	step, info, err := env.Step(ActionTrigger)
	require.NoError(t, err)
	assert.True(t, step.Last())
	assert.True(t, step.Terminated())
	assert.False(t, step.Truncated())
	assert.True(t, info.Terminated)
	assert.False(t, info.Truncated)
	assert.Equal(t, 1, info.NumEpisodes)
}

func TestGeometryWarnings(t *testing.T) {
	config := testConfig()
	config.Alpha = 0.6

	env, _ := testEnv(t, config)
	defer env.Close()

	// A 0.6 contraction of the full box crosses its own edges; the
	// repaired box must be well formed and the repair counted
	_, info, err := env.Step(ActionSmaller)
	require.NoError(t, err)
	assert.Equal(t, 1, info.GeometryWarnings)
	assert.LessOrEqual(t, info.Box.XMin, info.Box.XMax)
	assert.LessOrEqual(t, info.Box.YMin, info.Box.YMax)
}

func TestResetPreservesEpisodeCount(t *testing.T) {
	config := testConfig()
	config.MaxSteps = 1

	env, _ := testEnv(t, config)
	defer env.Close()

	_, _, err := env.Step(ActionLeft)
	require.NoError(t, err)
	require.Equal(t, 1, env.Episodes())

	target := env.Target()
	firstStep, err := env.Reset(testImage(target), testImage(target),
		target, config)
	require.NoError(t, err)

	assert.True(t, firstStep.First())
	assert.False(t, env.Terminated())
	assert.False(t, env.Truncated())
	assert.Equal(t, NewBox(0, 0, 100, 100), env.Box())

	// The episode counter is environment-lifetime state
	assert.Equal(t, 1, env.Episodes())
}

func TestActionSpec(t *testing.T) {
	env, _ := testEnv(t, testConfig())
	defer env.Close()

	spec := env.ActionSpec()
	assert.Equal(t, 1, spec.Shape.Len())
	assert.Equal(t, 0.0, spec.LowerBound.AtVec(0))
	assert.Equal(t, float64(NumActions-1), spec.UpperBound.AtVec(0))
}

func TestCloseIdempotent(t *testing.T) {
	env, _ := testEnv(t, testConfig())

	assert.NoError(t, env.Close())
	assert.NoError(t, env.Close())
}
