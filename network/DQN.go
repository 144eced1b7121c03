package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	env "github.com/golocate/golocate/environment"
	"github.com/golocate/golocate/initwfn"
)

// DefaultHiddenSizes is the hidden layout used when an estimator
// constructor receives no hidden sizes
var DefaultHiddenSizes = []int{1024}

// DQN is a feedforward action-value estimator: observation -> hidden
// layers (tanh) -> one linear score per action. A DQN is deterministic
// given fixed parameters and ignores the scoring Mode.
type DQN struct {
	g      *G.ExprGraph
	vm     G.VM
	input  *G.Node
	layers []*fcLayer

	prediction *G.Node
	predVal    G.Value

	features int
	outputs  int
}

// NewDQN returns a new DQN sized for the argument environment: the
// network takes observations of the environment's observation length
// and scores each discrete action. A final linear layer producing the
// action scores is always appended after the hidden layers; passing
// nil hiddenSizes uses DefaultHiddenSizes.
func NewDQN(e env.Environment, hiddenSizes []int,
	init *initwfn.InitWFn) (*DQN, error) {
	features, outputs, err := layerDims(e)
	if err != nil {
		return nil, fmt.Errorf("newdqn: %v", err)
	}
	if hiddenSizes == nil {
		hiddenSizes = DefaultHiddenSizes
	}

	sizes := make([]int, 0, len(hiddenSizes)+1)
	activations := make([]*Activation, 0, len(hiddenSizes)+1)
	for _, size := range hiddenSizes {
		sizes = append(sizes, size)
		activations = append(activations, TanH())
	}
	sizes = append(sizes, outputs)
	activations = append(activations, Identity())

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers, err := addFCLayers(g, features, sizes, activations,
		init.InitWFn(), "")
	if err != nil {
		return nil, fmt.Errorf("newdqn: %v", err)
	}

	d := &DQN{
		g:        g,
		input:    input,
		layers:   layers,
		features: features,
		outputs:  outputs,
	}

	d.prediction, err = fwdLayers(layers, input)
	if err != nil {
		return nil, fmt.Errorf("newdqn: %v", err)
	}
	G.Read(d.prediction, &d.predVal)

	d.vm = G.NewTapeMachine(g)
	return d, nil
}

// Score returns the estimated value of every action in the given
// observation. The mode is ignored: a DQN scores deterministically.
func (d *DQN) Score(obs []float64, _ Mode) ([]float64, error) {
	if err := setInput(d.input, obs, d.features); err != nil {
		return nil, fmt.Errorf("score: %v", err)
	}

	if err := d.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("score: could not run forward pass: %v", err)
	}
	scores := copyOutput(d.predVal)
	d.vm.Reset()

	return scores, nil
}

// Features returns the expected observation vector length
func (d *DQN) Features() int {
	return d.features
}

// Outputs returns the number of actions scored
func (d *DQN) Outputs() int {
	return d.outputs
}

// Learnables returns the learnable nodes of the network
func (d *DQN) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, l := range d.layers {
		learnables = append(learnables, l.learnables()...)
	}
	return learnables
}

// layerDims computes the input and output widths of an estimator for
// an environment
func layerDims(e env.Environment) (features, outputs int, err error) {
	if e.ActionSpec().Cardinality != env.Discrete {
		return 0, 0, fmt.Errorf("cannot score non-discrete actions")
	}

	features = e.ObservationSpec().Shape.Len()
	outputs = int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	if outputs < 1 {
		return 0, 0, fmt.Errorf("environment has no actions to score")
	}
	return features, outputs, nil
}

// setInput binds an observation to a network input node
func setInput(input *G.Node, obs []float64, features int) error {
	if len(obs) != features {
		return fmt.Errorf("invalid observation length\n\twant(%v)"+
			"\n\thave(%v)", features, len(obs))
	}

	backing := make([]float64, len(obs))
	copy(backing, obs)
	t := tensor.New(
		tensor.WithBacking(backing),
		tensor.WithShape(input.Shape()...),
	)
	return G.Let(input, t)
}

// copyOutput copies the scores out of a prediction value so that they
// survive the VM reset
func copyOutput(v G.Value) []float64 {
	data := v.Data().([]float64)
	out := make([]float64, len(data))
	copy(out, data)
	return out
}
