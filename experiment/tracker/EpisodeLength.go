package tracker

import (
	ts "github.com/golocate/golocate/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in a rollout.
// An episode must finish for this Tracker to record its data.
type EpisodeLength struct {
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which saves its
// data at filename
func NewEpisodeLength(filename string) Tracker {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length when the argument timestep is the
// last of its episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(t.Number))
	}
}

// Lengths returns the recorded episode lengths so far
func (e *EpisodeLength) Lengths() []float64 {
	lengths := make([]float64, len(e.episodeLengths))
	copy(lengths, e.episodeLengths)
	return lengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() {
	save(e.filename, e.episodeLengths)
}
