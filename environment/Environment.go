// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import "github.com/golocate/golocate/timestep"

// Ender decides whether a timestep is the last of its episode. If so,
// an Ender adjusts the TimeStep's StepType and EndType accordingly and
// returns true.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment that an agent can
// interact with episodically.
//
// Concrete environments additionally provide Reset and Step methods.
// Their exact shapes are environment-specific: resetting may rebind
// per-episode inputs and stepping may produce auxiliary per-step data
// (e.g. an object localization environment takes a fresh image on
// reset and reports the current overlap with its target on each step),
// so neither is part of this interface. The interface covers what
// external consumers such as value function constructors need: the
// layout of actions and observations, and resource teardown.
type Environment interface {
	ActionSpec() Spec
	ObservationSpec() Spec
	Close() error
}
