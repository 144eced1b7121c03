// Package policy implements action selection rules over action-value
// estimators.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/golocate/golocate/network"
	"github.com/golocate/golocate/utils/floatutils"
)

// EGreedy selects actions ε-greedily with respect to an estimator's
// scores: with probability ε a uniformly random action, otherwise an
// action of maximal estimated value with ties broken uniformly at
// random.
type EGreedy struct {
	estimator network.Estimator
	epsilon   float64
	rng       *rand.Rand
}

// NewEGreedy returns a new ε-greedy policy over the argument estimator
func NewEGreedy(estimator network.Estimator, epsilon float64,
	seed uint64) (*EGreedy, error) {
	if estimator == nil {
		return nil, fmt.Errorf("negreedy: no estimator to select " +
			"actions with")
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("negreedy: epsilon must be in [0, 1] "+
			"but got %v", epsilon)
	}

	return &EGreedy{
		estimator: estimator,
		epsilon:   epsilon,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// SelectAction returns an action for the given observation. The mode
// is forwarded to the estimator, so a noisy estimator explores through
// its parameter noise on top of the ε-random actions.
func (e *EGreedy) SelectAction(obs []float64,
	mode network.Mode) (int, error) {
	if e.rng.Float64() < e.epsilon {
		return e.rng.Intn(e.estimator.Outputs()), nil
	}

	scores, err := e.estimator.Score(obs, mode)
	if err != nil {
		return 0, fmt.Errorf("selectaction: could not score actions: %v",
			err)
	}

	_, maxIndices := floatutils.MaxSlice(scores)
	return maxIndices[e.rng.Intn(len(maxIndices))], nil
}

// Epsilon returns the current probability of taking a random action
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

// SetEpsilon sets the probability of taking a random action
func (e *EGreedy) SetEpsilon(epsilon float64) error {
	if epsilon < 0 || epsilon > 1 {
		return fmt.Errorf("setepsilon: epsilon must be in [0, 1] but "+
			"got %v", epsilon)
	}
	e.epsilon = epsilon
	return nil
}
