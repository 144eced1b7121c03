package network

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	env "github.com/golocate/golocate/environment"
)

// DefaultNoiseStd is the standard deviation of the factorised noise
// sampled during exploratory scoring
const DefaultNoiseStd = 0.1

// sigmaInit is the initial value of every noise scale parameter
const sigmaInit = 0.017

// noisyLinear is a fully connected layer whose weights and biases are
// perturbed by learnable noise scales:
//
//	w = wMu + wSigma * wEps
//	b = bMu + bSigma * bEps
//
// The mu and sigma nodes are learnable. The eps nodes are inputs,
// re-bound on every forward pass: Gaussian samples when exploring,
// zeros when evaluating.
type noisyLinear struct {
	wMu    *G.Node
	wSigma *G.Node
	wEps   *G.Node
	bMu    *G.Node
	bSigma *G.Node
	bEps   *G.Node
	act    *Activation

	in  int
	out int
}

// newNoisyLinear adds a noisy fully connected layer to the
// computational graph g. The mu parameters are initialized uniformly
// on ±√(3/in) and every sigma starts at sigmaInit.
func newNoisyLinear(g *G.ExprGraph, in, out int, act *Activation,
	name string) *noisyLinear {
	bound := math.Sqrt(3.0 / float64(in))

	wMu := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"WMu"),
		G.WithInit(G.Uniform(-bound, bound)),
	)
	wSigma := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"WSigma"),
		G.WithInit(G.ValuesOf(sigmaInit)),
	)
	wEps := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"WEps"),
		G.WithInit(G.Zeroes()),
	)

	bMu := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"BMu"),
		G.WithInit(G.Uniform(-bound, bound)),
	)
	bSigma := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"BSigma"),
		G.WithInit(G.ValuesOf(sigmaInit)),
	)
	bEps := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"BEps"),
		G.WithInit(G.Zeroes()),
	)

	return &noisyLinear{
		wMu:    wMu,
		wSigma: wSigma,
		wEps:   wEps,
		bMu:    bMu,
		bSigma: bSigma,
		bEps:   bEps,
		act:    act,
		in:     in,
		out:    out,
	}
}

// fwd adds the forward pass of the noisy layer to the computational
// graph
func (n *noisyLinear) fwd(x *G.Node) (*G.Node, error) {
	weights := G.Must(G.Add(n.wMu, G.Must(G.HadamardProd(n.wSigma,
		n.wEps))))
	bias := G.Must(G.Add(n.bMu, G.Must(G.HadamardProd(n.bSigma, n.bEps))))

	x = G.Must(G.Mul(x, weights))
	x = G.Must(G.BroadcastAdd(x, bias, nil, []byte{0}))

	if n.act == nil || n.act.IsIdentity() {
		return x, nil
	}
	return n.act.fwd(x)
}

// learnables returns the learnable nodes of the layer
func (n *noisyLinear) learnables() G.Nodes {
	return G.Nodes{n.wMu, n.wSigma, n.bMu, n.bSigma}
}

// setNoise binds the noise input nodes of the layer. A nil sampler
// binds zeros, making the layer behave as a plain linear layer with
// the mu parameters.
func (n *noisyLinear) setNoise(sample func() float64) error {
	wBacking := make([]float64, n.in*n.out)
	bBacking := make([]float64, n.out)
	if sample != nil {
		for i := range wBacking {
			wBacking[i] = sample()
		}
		for i := range bBacking {
			bBacking[i] = sample()
		}
	}

	wNoise := tensor.New(
		tensor.WithBacking(wBacking),
		tensor.WithShape(n.in, n.out),
	)
	if err := G.Let(n.wEps, wNoise); err != nil {
		return fmt.Errorf("setnoise: could not bind weight noise: %v", err)
	}

	bNoise := tensor.New(
		tensor.WithBacking(bBacking),
		tensor.WithShape(n.out),
	)
	if err := G.Let(n.bEps, bNoise); err != nil {
		return fmt.Errorf("setnoise: could not bind bias noise: %v", err)
	}
	return nil
}

// NoisyDQN is a feedforward action-value estimator whose layers carry
// parametric noise. Exploratory scoring samples fresh noise on every
// call, so repeated scores of the same observation differ; evaluation
// scoring zeroes the noise and is deterministic.
type NoisyDQN struct {
	g      *G.ExprGraph
	vm     G.VM
	input  *G.Node
	layers []*noisyLinear

	prediction *G.Node
	predVal    G.Value

	noise distuv.Normal

	features int
	outputs  int
}

// NewNoisyDQN returns a new noisy estimator sized for the argument
// environment. Passing nil hiddenSizes uses DefaultHiddenSizes and a
// non-positive noiseStd uses DefaultNoiseStd. Hidden layers use tanh
// activations and the final layer is linear.
func NewNoisyDQN(e env.Environment, hiddenSizes []int, noiseStd float64,
	seed uint64) (*NoisyDQN, error) {
	features, outputs, err := layerDims(e)
	if err != nil {
		return nil, fmt.Errorf("newnoisydqn: %v", err)
	}
	if hiddenSizes == nil {
		hiddenSizes = DefaultHiddenSizes
	}
	if noiseStd <= 0 {
		noiseStd = DefaultNoiseStd
	}

	g := G.NewGraph()
	input := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, features),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	layers := make([]*noisyLinear, len(hiddenSizes)+1)
	in := features
	for i, out := range hiddenSizes {
		name := fmt.Sprintf("NoisyL%d", i)
		layers[i] = newNoisyLinear(g, in, out, TanH(), name)
		in = out
	}
	layers[len(layers)-1] = newNoisyLinear(g, in, outputs, Identity(),
		fmt.Sprintf("NoisyL%d", len(layers)-1))

	n := &NoisyDQN{
		g:      g,
		input:  input,
		layers: layers,
		noise: distuv.Normal{
			Mu:    0,
			Sigma: noiseStd,
			Src:   rand.NewSource(seed),
		},
		features: features,
		outputs:  outputs,
	}

	pred := input
	for i, l := range layers {
		if pred, err = l.fwd(pred); err != nil {
			return nil, fmt.Errorf("newnoisydqn: could not compute forward "+
				"pass of layer %v: %v", i, err)
		}
	}
	n.prediction = pred
	G.Read(n.prediction, &n.predVal)

	n.vm = G.NewTapeMachine(g)
	return n, nil
}

// Score returns the estimated value of every action in the given
// observation. Exploration mode perturbs the parameters with freshly
// sampled noise; Evaluation mode uses the mean parameters only.
func (n *NoisyDQN) Score(obs []float64, mode Mode) ([]float64, error) {
	if err := setInput(n.input, obs, n.features); err != nil {
		return nil, fmt.Errorf("score: %v", err)
	}

	var sample func() float64
	if mode == Exploration {
		sample = n.noise.Rand
	}
	for _, l := range n.layers {
		if err := l.setNoise(sample); err != nil {
			return nil, fmt.Errorf("score: %v", err)
		}
	}

	if err := n.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("score: could not run forward pass: %v", err)
	}
	scores := copyOutput(n.predVal)
	n.vm.Reset()

	return scores, nil
}

// Features returns the expected observation vector length
func (n *NoisyDQN) Features() int {
	return n.features
}

// Outputs returns the number of actions scored
func (n *NoisyDQN) Outputs() int {
	return n.outputs
}

// Learnables returns the learnable nodes of the network
func (n *NoisyDQN) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, l := range n.layers {
		learnables = append(learnables, l.learnables()...)
	}
	return learnables
}
