package initwfn

import G "gorgonia.org/gorgonia"

// GlorotUConfig describes a Glorot (Xavier) uniform weight
// initializer with a gain factor.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns the type of the weight initializer created using this
// configuration
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the described weight initializer as a Gorgonia
// InitWFn
func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// GlorotNConfig describes a Glorot (Xavier) normal weight initializer
// with a gain factor.
type GlorotNConfig struct {
	Gain float64
}

// NewGlorotN returns a new Glorot normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{Gain: gain})
}

// Type returns the type of the weight initializer created using this
// configuration
func (g GlorotNConfig) Type() Type {
	return GlorotN
}

// Create returns the described weight initializer as a Gorgonia
// InitWFn
func (g GlorotNConfig) Create() G.InitWFn {
	return G.GlorotN(g.Gain)
}
