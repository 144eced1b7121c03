// Package experiment implements functionality for rolling out a
// policy in a localization environment and recording what happens.
package experiment

import (
	"fmt"
	"image"

	"github.com/golocate/golocate/environment/localize"
	"github.com/golocate/golocate/experiment/tracker"
	"github.com/golocate/golocate/network"
	ts "github.com/golocate/golocate/timestep"
)

// Policy selects actions from observations. Policies over every
// estimator variant satisfy this interface.
type Policy interface {
	SelectAction(obs []float64, mode network.Mode) (int, error)
}

// EpisodeSource supplies the scene for each episode: the episode
// image, the untouched original for rendering, and the ground truth
// target box. A source backed by a dataset yields a different scene
// per call; FixedScene replays one scene forever.
type EpisodeSource interface {
	NextScene() (img image.Image, original image.Image,
		target localize.Box)
}

// FixedScene is an EpisodeSource that replays a single scene on every
// episode
type FixedScene struct {
	img      image.Image
	original image.Image
	target   localize.Box
}

// NewFixedScene returns an EpisodeSource replaying the argument scene
func NewFixedScene(img, original image.Image,
	target localize.Box) *FixedScene {
	return &FixedScene{img: img, original: original, target: target}
}

// NextScene returns the fixed scene
func (f *FixedScene) NextScene() (image.Image, image.Image, localize.Box) {
	return f.img, f.original, f.target
}

// infoTracker is implemented by Trackers that also want the
// environment snapshot reported with each step
type infoTracker interface {
	TrackInfo(localize.Info)
}

// Rollout runs a policy in a localization environment for whole
// episodes, feeding every timestep to its registered Trackers. No
// learning happens during a rollout; it is an evaluation harness.
type Rollout struct {
	env      *localize.Env
	source   EpisodeSource
	policy   Policy
	mode     network.Mode
	config   localize.Config
	trackers []tracker.Tracker
}

// NewRollout creates and returns a new rollout of policy in e. Each
// episode plays out a scene drawn from source under the argument
// configuration; mode determines how the policy's estimator scores
// actions. The trackers t determine what data is recorded.
func NewRollout(e *localize.Env, source EpisodeSource, policy Policy,
	mode network.Mode, config localize.Config,
	t ...tracker.Tracker) *Rollout {
	return &Rollout{
		env:      e,
		source:   source,
		policy:   policy,
		mode:     mode,
		config:   config,
		trackers: t,
	}
}

// Register registers a tracker.Tracker with the Rollout so that data
// generated during upcoming episodes is tracked
func (r *Rollout) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// RunEpisode runs a single episode on the next scene from the
// EpisodeSource
func (r *Rollout) RunEpisode() error {
	img, original, target := r.source.NextScene()

	step, err := r.env.Reset(img, original, target, r.config)
	if err != nil {
		return fmt.Errorf("runepisode: could not reset environment: %v", err)
	}
	r.track(step)

	for !step.Last() {
		obs := step.Observation.RawVector().Data
		action, err := r.policy.SelectAction(obs, r.mode)
		if err != nil {
			return fmt.Errorf("runepisode: could not select action: %v", err)
		}

		var info localize.Info
		step, info, err = r.env.Step(action)
		if err != nil {
			return fmt.Errorf("runepisode: could not step environment: %v",
				err)
		}

		r.trackInfo(info)
		r.track(step)
	}
	return nil
}

// Run runs the rollout for the given number of episodes
func (r *Rollout) Run(episodes int) error {
	for i := 0; i < episodes; i++ {
		if err := r.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %d: %v", i, err)
		}
	}
	return nil
}

// Save saves all the data cached by the registered Trackers to disk
func (r *Rollout) Save() {
	for _, t := range r.trackers {
		t.Save()
	}
}

// track feeds the current timestep to each registered Tracker
func (r *Rollout) track(t ts.TimeStep) {
	for _, trk := range r.trackers {
		trk.Track(t)
	}
}

// trackInfo feeds the environment snapshot to the Trackers that want
// it
func (r *Rollout) trackInfo(info localize.Info) {
	for _, trk := range r.trackers {
		if it, ok := trk.(infoTracker); ok {
			it.TrackInfo(info)
		}
	}
}
