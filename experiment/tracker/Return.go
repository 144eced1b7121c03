package tracker

import (
	ts "github.com/golocate/golocate/timestep"
)

// Return tracks and saves the episodic return of a rollout. When an
// environment returns a TimeStep, this Tracker extracts the reward and
// accumulates the return for each episode.
//
// Note: an episode must finish for this Tracker to record its data. If
// the last episode of a rollout does not finish, that episode's return
// is not saved.
type Return struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker that saves its
// data at filename
func NewReturn(filename string) Tracker {
	return &Return{filename: filename}
}

// Track accumulates the reward seen on a timestep. When the timestep
// is the last of its episode, the accumulated return is recorded and
// accumulation restarts for the next episode.
func (r *Return) Track(step ts.TimeStep) {
	r.currentReturn += step.Reward
	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
	}
}

// Returns returns the recorded episodic returns so far
func (r *Return) Returns() []float64 {
	returns := make([]float64, len(r.episodeReturns))
	copy(returns, r.episodeReturns)
	return returns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() {
	save(r.filename, r.episodeReturns)
}
