package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

// Network is a plain stack of Layers implementing classroom.Model. It is
// built by chaining Add calls and then calling Finalize:
//
//		net := nn.New(32*32*3).
//			Add(nn.Conv(8, 3).InputDims(3, 32, 32)).
//			Add(nn.ReLU()).
//			Add(nn.MaxPool(2).InputDims(8, 32, 32)).
//			Add(nn.Dense(10))
//
//		if err := net.Finalize(); err != nil {
//			return err
//		}
//
// Construction errors are stored and returned from Finalize (or Error), so
// the chain does not need checking at every step.
type Network struct {
	inSize  int
	outSize int
	seed    int64
	layers  []Layer

	err       error
	finalized bool
}

// New returns an empty Network expecting inputSize values per example.
func New(inputSize int) *Network {
	net := new(Network)
	net.inSize = inputSize
	net.seed = 1

	if inputSize < 1 {
		net.err = errors.Errorf("input size must be >= 1 (%d)", inputSize)
	}

	return net
}

// Seed sets the seed used to initialize weights. The default is 1, so two
// Networks built the same way start identical unless told otherwise.
func (net *Network) Seed(seed int64) *Network {
	net.seed = seed
	return net
}

// Add appends a Layer. It does nothing if a previous step already failed.
func (net *Network) Add(l Layer) *Network {
	if net.err != nil {
		return net
	} else if net.finalized {
		net.err = errors.Errorf("Network has finished construction")
		return net
	} else if l == nil {
		net.err = errors.Errorf("Layer is nil")
		return net
	}

	net.layers = append(net.layers, l)
	return net
}

// Error returns any error encountered while constructing the Network.
func (net *Network) Error() error {
	return net.err
}

// Finalize initializes every layer and locks the architecture. The Network
// cannot be used as a Model before this succeeds.
func (net *Network) Finalize() error {
	if net.err != nil {
		return net.err
	} else if net.finalized {
		return nil
	} else if len(net.layers) == 0 {
		net.err = errors.Errorf("Network has no layers")
		return net.err
	}

	rng := rand.New(rand.NewSource(net.seed))

	size := net.inSize
	for i, l := range net.layers {
		var err error
		if size, err = l.Init(size, rng); err != nil {
			net.err = errors.Wrapf(err, "Failed to initialize layer %d\n", i)
			return net.err
		}
	}

	net.outSize = size
	net.finalized = true
	return nil
}

// InputSize returns the number of input values the Network expects, and
// OutputSize the number of scores it produces. OutputSize returns -1 before
// Finalize.
func (net *Network) InputSize() int {
	return net.inSize
}

func (net *Network) OutputSize() int {
	if !net.finalized {
		return -1
	}

	return net.outSize
}

// Forward implements classroom.Model. The returned slice is a copy.
func (net *Network) Forward(input []float64) ([]float64, error) {
	if !net.finalized {
		return nil, errors.Errorf("Network has not been finalized")
	} else if len(input) != net.inSize {
		return nil, errors.Errorf("wrong number of inputs (%d != %d)", len(input), net.inSize)
	}

	vs := input
	for _, l := range net.layers {
		vs = l.Forward(vs)
	}

	out := make([]float64, len(vs))
	copy(out, vs)
	return out, nil
}

// Backward implements classroom.Model, accumulating gradients from the most
// recent Forward.
func (net *Network) Backward(derivs []float64) error {
	if !net.finalized {
		return errors.Errorf("Network has not been finalized")
	} else if len(derivs) != net.outSize {
		return errors.Errorf("wrong number of output derivatives (%d != %d)", len(derivs), net.outSize)
	}

	ds := derivs
	for i := len(net.layers) - 1; i >= 0; i-- {
		ds = net.layers[i].Backward(ds)
	}

	return nil
}

// Params implements classroom.Model. The groups alias layer storage, in
// layer order.
func (net *Network) Params() bs.Params {
	var p bs.Params
	for _, l := range net.layers {
		if adj, ok := l.(Adjustable); ok {
			p = append(p, adj.Weights()...)
		}
	}

	return p
}

// Grads implements classroom.Model, aligned with Params.
func (net *Network) Grads() bs.Params {
	var g bs.Params
	for _, l := range net.layers {
		if adj, ok := l.(Adjustable); ok {
			g = append(g, adj.Grads()...)
		}
	}

	return g
}

// SetParams copies the given values over the live weights.
func (net *Network) SetParams(p bs.Params) error {
	return p.CopyInto(net.Params())
}

// SetTraining implements classroom.Model, toggling layers like Dropout.
func (net *Network) SetTraining(on bool) {
	for _, l := range net.layers {
		if m, ok := l.(Moded); ok {
			m.SetTraining(on)
		}
	}
}
