package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

type relu struct {
	input  []float64
	outBuf []float64
	inBuf  []float64
}

// ReLU returns the rectified linear activation, applied elementwise.
func ReLU() *relu {
	return new(relu)
}

func (r *relu) Init(inSize int, rng *rand.Rand) (int, error) {
	if inSize < 1 {
		return 0, errors.Errorf("input size must be >= 1 (%d)", inSize)
	}

	r.outBuf = make([]float64, inSize)
	r.inBuf = make([]float64, inSize)
	return inSize, nil
}

func (r *relu) Forward(in []float64) []float64 {
	r.input = in
	for i, v := range in {
		if v > 0 {
			r.outBuf[i] = v
		} else {
			r.outBuf[i] = 0
		}
	}

	return r.outBuf
}

func (r *relu) Backward(dOut []float64) []float64 {
	for i, v := range r.input {
		if v > 0 {
			r.inBuf[i] = dOut[i]
		} else {
			r.inBuf[i] = 0
		}
	}

	return r.inBuf
}

type tanh struct {
	outBuf []float64
	inBuf  []float64
}

// Tanh returns the hyperbolic tangent activation, applied elementwise.
func Tanh() *tanh {
	return new(tanh)
}

func (t *tanh) Init(inSize int, rng *rand.Rand) (int, error) {
	if inSize < 1 {
		return 0, errors.Errorf("input size must be >= 1 (%d)", inSize)
	}

	t.outBuf = make([]float64, inSize)
	t.inBuf = make([]float64, inSize)
	return inSize, nil
}

func (t *tanh) Forward(in []float64) []float64 {
	for i, v := range in {
		t.outBuf[i] = math.Tanh(v)
	}

	return t.outBuf
}

func (t *tanh) Backward(dOut []float64) []float64 {
	// d/dx tanh(x) = 1 - tanh(x)²
	for i, o := range t.outBuf {
		t.inBuf[i] = dOut[i] * (1 - o*o)
	}

	return t.inBuf
}
