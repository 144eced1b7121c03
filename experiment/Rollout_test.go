package experiment

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golocate/golocate/environment/localize"
	"github.com/golocate/golocate/experiment/tracker"
	"github.com/golocate/golocate/feature"
	"github.com/golocate/golocate/network"
)

// scriptedPolicy repeats one fixed action
type scriptedPolicy struct {
	action int
}

func (s *scriptedPolicy) SelectAction(_ []float64,
	_ network.Mode) (int, error) {
	return s.action, nil
}

func testScene() (image.Image, localize.Box) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Gray{Y: 40}},
		image.Point{}, draw.Src)

	target := localize.NewBox(25, 25, 75, 75)
	draw.Draw(img, image.Rect(25, 25, 75, 75), &image.Uniform{color.White},
		image.Point{}, draw.Src)
	return img, target
}

func testRollout(t *testing.T, config localize.Config, action int,
	trackers ...tracker.Tracker) *Rollout {
	img, target := testScene()

	extractor, err := feature.NewMeanPool(4)
	require.NoError(t, err)

	env, _, err := localize.New(img, img, target, extractor, config)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	source := NewFixedScene(img, img, target)
	policy := &scriptedPolicy{action: action}
	return NewRollout(env, source, policy, network.Evaluation, config,
		trackers...)
}

func TestRolloutRunsWholeEpisodes(t *testing.T) {
	config := localize.DefaultConfig()
	config.TargetSize = 32
	config.MaxSteps = 3

	returns := tracker.NewReturn("").(*tracker.Return)
	lengths := tracker.NewEpisodeLength("").(*tracker.EpisodeLength)

	rollout := testRollout(t, config, localize.ActionBigger, returns, lengths)
	require.NoError(t, rollout.Run(2))

	// Growing the full-extent box clamps back to itself, so every step earns -1
	assert.Equal(t, []float64{-3, -3}, returns.Returns())
	assert.Equal(t, []float64{3, 3}, lengths.Lengths())
}

func TestRolloutTracksFinalIoU(t *testing.T) {
	config := localize.DefaultConfig()
	config.TargetSize = 32

	ious := tracker.NewFinalIoU("").(*tracker.FinalIoU)

	// Triggering immediately ends the episode with the full-extent
	// box, whose overlap with the 50x50 target is 0.25
	rollout := testRollout(t, config, localize.ActionTrigger, ious)
	require.NoError(t, rollout.Run(3))

	require.Len(t, ious.IoUs(), 3)
	for _, iou := range ious.IoUs() {
		assert.InDelta(t, 0.25, iou, 1e-12)
	}
}

func TestTrackerSaveLoadRoundTrip(t *testing.T) {
	config := localize.DefaultConfig()
	config.TargetSize = 32
	config.MaxSteps = 2

	filename := filepath.Join(t.TempDir(), "returns.bin")
	returns := tracker.NewReturn(filename)

	rollout := testRollout(t, config, localize.ActionBigger, returns)
	require.NoError(t, rollout.Run(2))
	rollout.Save()

	assert.Equal(t, []float64{-2, -2}, tracker.LoadData(filename))
}
