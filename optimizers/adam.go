package optimizers

import (
	"math"

	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

type adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	iter int
	m, v bs.Params
}

// Adam returns the Adam optimizer with the given learning rate, which
// implements classroom.Optimizer. The defaults are β1 = 0.9, β2 = 0.999 and
// ε = 1e-8; they can be changed with the chainable methods below.
func Adam(learningRate float64) *adam {
	return &adam{
		lr:    learningRate,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
	}
}

// WithBetas sets the decay rates of the two moment estimates.
func (a *adam) WithBetas(beta1, beta2 float64) *adam {
	a.beta1, a.beta2 = beta1, beta2
	return a
}

// WithEpsilon sets the denominator fuzz term.
func (a *adam) WithEpsilon(eps float64) *adam {
	a.eps = eps
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) LearningRate() float64 {
	return a.lr
}

func (a *adam) SetLearningRate(lr float64) {
	a.lr = lr
}

func (a *adam) Step(mdl bs.Model) error {
	params, grads := mdl.Params(), mdl.Grads()
	if len(params) != len(grads) {
		return errors.Errorf("model has %d param groups but %d grad groups", len(params), len(grads))
	}

	if a.m == nil {
		a.m = zeroLike(params)
		a.v = zeroLike(params)
	}

	a.iter++
	c1 := 1 - math.Pow(a.beta1, float64(a.iter))
	c2 := 1 - math.Pow(a.beta2, float64(a.iter))

	for g := range params {
		w, d := params[g], grads[g]
		if len(w) != len(d) {
			return errors.Errorf("param group %d has %d values but %d gradients", g, len(w), len(d))
		}

		m, v := a.m[g], a.v[g]
		for i := range w {
			m[i] = a.beta1*m[i] + (1-a.beta1)*d[i]
			v[i] = a.beta2*v[i] + (1-a.beta2)*d[i]*d[i]

			mHat := m[i] / c1
			vHat := v[i] / c2
			w[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}

		clear(d)
	}

	return nil
}
