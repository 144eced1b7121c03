package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds a fully connected layer with a bias unit to the
// computational graph g
func newFCLayer(g *G.ExprGraph, in, out int, init G.InitWFn,
	act *Activation, name string) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(name+"W"),
		G.WithInit(init),
	)
	bias := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(out),
		G.WithName(name+"B"),
		G.WithInit(G.Zeroes()),
	)

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.weights))

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))

	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

// learnables returns the learnable nodes of the layer
func (f *fcLayer) learnables() G.Nodes {
	return G.Nodes{f.weights, f.bias}
}

// addFCLayers creates a chain of fully connected layers on g, one per
// entry of sizes, starting from features inputs. The activations
// argument must have one entry per layer.
func addFCLayers(g *G.ExprGraph, features int, sizes []int,
	activations []*Activation, init G.InitWFn,
	prefix string) ([]*fcLayer, error) {
	if len(sizes) != len(activations) {
		return nil, fmt.Errorf("addfclayers: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(sizes), len(activations))
	}

	layers := make([]*fcLayer, len(sizes))
	in := features
	for i, out := range sizes {
		name := fmt.Sprintf("%vL%d", prefix, i)
		layers[i] = newFCLayer(g, in, out, init, activations[i], name)
		in = out
	}
	return layers, nil
}

// fwdLayers runs x through a chain of layers
func fwdLayers(layers []*fcLayer, x *G.Node) (*G.Node, error) {
	var err error
	for i, l := range layers {
		if x, err = l.fwd(x); err != nil {
			return nil, fmt.Errorf("fwd: could not compute forward pass of "+
				"layer %v: %v", i, err)
		}
	}
	return x, nil
}
