package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	env "github.com/golocate/golocate/environment"
	"github.com/golocate/golocate/initwfn"
)

// DefaultTrunkSizes is the shared trunk layout used when a dueling
// estimator constructor receives no trunk sizes. The trunk ends in a
// narrow linear layer feeding both heads.
var DefaultTrunkSizes = []int{1024, 32}

// DuelingDQN estimates action values as a state value plus a centred
// per-action advantage. A shared trunk feeds two linear heads; the
// scores are combined in-graph as
//
//	Q(s, a) = V(s) + A(s, a) - mean(A(s, ·))
//
// which keeps the decomposition identifiable: adding a constant to
// every advantage leaves the scores unchanged.
type DuelingDQN struct {
	g  *G.ExprGraph
	vm G.VM

	input     *G.Node
	trunk     []*fcLayer
	valueHead *fcLayer
	advHead   *fcLayer

	prediction *G.Node
	predVal    G.Value
	value      *G.Node
	valueVal   G.Value

	features int
	outputs  int
}

// NewDuelingDQN returns a new dueling estimator sized for the argument
// environment. Passing nil trunkSizes uses DefaultTrunkSizes. Hidden
// trunk layers use tanh activations; the last trunk layer and both
// heads are linear.
func NewDuelingDQN(e env.Environment, trunkSizes []int,
	init *initwfn.InitWFn) (*DuelingDQN, error) {
	features, outputs, err := layerDims(e)
	if err != nil {
		return nil, fmt.Errorf("newduelingdqn: %v", err)
	}
	if trunkSizes == nil {
		trunkSizes = DefaultTrunkSizes
	}

	activations := make([]*Activation, len(trunkSizes))
	for i := range activations {
		activations[i] = TanH()
	}
	activations[len(activations)-1] = Identity()

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	trunk, err := addFCLayers(g, features, trunkSizes, activations,
		init.InitWFn(), "Trunk")
	if err != nil {
		return nil, fmt.Errorf("newduelingdqn: %v", err)
	}
	trunkWidth := trunkSizes[len(trunkSizes)-1]

	valueHead := newFCLayer(g, trunkWidth, 1, init.InitWFn(), Identity(),
		"Value")
	advHead := newFCLayer(g, trunkWidth, outputs, init.InitWFn(),
		Identity(), "Advantage")

	d := &DuelingDQN{
		g:         g,
		input:     input,
		trunk:     trunk,
		valueHead: valueHead,
		advHead:   advHead,
		features:  features,
		outputs:   outputs,
	}

	if err := d.fwd(); err != nil {
		return nil, fmt.Errorf("newduelingdqn: %v", err)
	}

	d.vm = G.NewTapeMachine(g)
	return d, nil
}

// fwd constructs the forward computation of the network
func (d *DuelingDQN) fwd() error {
	hidden, err := fwdLayers(d.trunk, d.input)
	if err != nil {
		return err
	}

	value, err := d.valueHead.fwd(hidden)
	if err != nil {
		return err
	}
	adv, err := d.advHead.fwd(hidden)
	if err != nil {
		return err
	}

	mean, err := G.Mean(adv, 1)
	if err != nil {
		return err
	}
	mean, err = G.Reshape(mean, []int{mean.Shape()[0], 1})
	if err != nil {
		return err
	}

	centred, err := G.BroadcastSub(adv, mean, nil, []byte{1})
	if err != nil {
		return err
	}
	d.prediction, err = G.BroadcastAdd(centred, value, nil, []byte{1})
	if err != nil {
		return err
	}

	d.value = value
	G.Read(d.prediction, &d.predVal)
	G.Read(d.value, &d.valueVal)
	return nil
}

// Score returns the estimated value of every action in the given
// observation. The mode is ignored: a dueling network scores
// deterministically.
func (d *DuelingDQN) Score(obs []float64, _ Mode) ([]float64, error) {
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

// Value returns the state value estimated for the given observation,
// before the centred advantages are added
func (d *DuelingDQN) Value(obs []float64) (float64, error) {
	if err := setInput(d.input, obs, d.features); err != nil {
		return 0, fmt.Errorf("value: %v", err)
	}

	if err := d.vm.RunAll(); err != nil {
		return 0, fmt.Errorf("value: could not run forward pass: %v", err)
	}
	value := d.valueVal.Data().([]float64)[0]
	d.vm.Reset()

	return value, nil
}

// Features returns the expected observation vector length
func (d *DuelingDQN) Features() int {
	return d.features
}

// Outputs returns the number of actions scored
func (d *DuelingDQN) Outputs() int {
	return d.outputs
}

// Learnables returns the learnable nodes of the network
func (d *DuelingDQN) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, l := range d.trunk {
		learnables = append(learnables, l.learnables()...)
	}
	learnables = append(learnables, d.valueHead.learnables()...)
	learnables = append(learnables, d.advHead.learnables()...)
	return learnables
}
