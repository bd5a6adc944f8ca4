package nn

import (
	"math/rand"
)

// Layer is a single stage of a Network: an operation on a flat slice of
// values, with enough state to push cost derivatives back through itself.
type Layer interface {
	// Init is called once, while the Network is finalized, with the number of
	// input values the layer will receive. It returns the number of values
	// the layer produces. Layers with weights allocate and initialize them
	// here, from the provided source of randomness.
	Init(inSize int, rng *rand.Rand) (outSize int, err error)

	// Forward computes the layer's outputs. The returned slice is owned by
	// the layer and is only valid until the next call.
	Forward(in []float64) []float64

	// Backward takes the derivative of the cost with respect to each output
	// and returns the derivative with respect to each input, accumulating
	// weight gradients along the way. It may assume Forward has just run.
	Backward(dOut []float64) []float64
}

// Adjustable is the subset of Layers that have weights. The slices returned
// by Weights and Grads alias the layer's storage and are aligned with each
// other; they are what Optimizers read and mutate.
type Adjustable interface {
	Layer

	Weights() [][]float64
	Grads() [][]float64
}

// Moded is the subset of Layers that behave differently between training and
// validation, such as Dropout.
type Moded interface {
	Layer

	SetTraining(bool)
}
