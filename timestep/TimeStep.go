// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended. Episodes may end by reaching
// a terminal state (e.g. an agent firing its trigger action) or by
// running out of time. A TimeStep that is not the last in its episode
// has EndType Nil.
type EndType int

const (
	// Nil indicates that the episode has not yet ended
	Nil EndType = iota

	// TerminalStateReached indicates that the episode ended because the
	// environment reached a terminal state
	TerminalStateReached

	// Timeout indicates that the episode ended because a step limit was
	// reached
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
	endType     EndType
}

// New returns a new TimeStep with EndType Nil
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the ending type of the TimeStep
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// End returns the ending type of the TimeStep
func (t *TimeStep) End() EndType {
	return t.endType
}

// Terminated returns whether the TimeStep ended its episode by
// reaching a terminal state
func (t *TimeStep) Terminated() bool {
	return t.endType == TerminalStateReached
}

// Truncated returns whether the TimeStep ended its episode by
// reaching a step limit
func (t *TimeStep) Truncated() bool {
	return t.endType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.endType)
}
