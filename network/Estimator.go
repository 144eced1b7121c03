// Package network implements action-value estimators using Gorgonia.
// Each estimator maps an environment observation vector to one score
// per discrete action.
package network

// Mode selects the scoring behaviour of an Estimator. Deterministic
// estimators behave identically in both modes; stochastic estimators
// (e.g. noisy networks) perturb their parameters in Exploration mode
// and use only their mean parameters in Evaluation mode.
//
// The mode is passed explicitly on every call rather than held as
// estimator state, so stochastic behaviour is always visible at the
// call site and reproducible in tests.
type Mode int

const (
	Evaluation Mode = iota
	Exploration
)

func (m Mode) String() string {
	if m == Exploration {
		return "Exploration"
	}
	return "Evaluation"
}

// Estimator is the capability shared by all action-value networks:
// scoring every action of a discrete action space given a single
// observation vector. Consumers depend on this capability only, never
// on a concrete estimator variant.
type Estimator interface {
	// Score returns one value per action for the given observation
	Score(obs []float64, mode Mode) ([]float64, error)

	// Features returns the expected observation vector length
	Features() int

	// Outputs returns the number of actions scored
	Outputs() int
}
