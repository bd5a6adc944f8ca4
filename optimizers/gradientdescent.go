package optimizers

import (
	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

type sgd struct {
	lr       float64
	momentum float64
	velocity bs.Params
}

// SGD returns plain stochastic gradient descent with the given learning rate,
// which implements classroom.Optimizer. Momentum is off by default; it can be
// enabled with WithMomentum, which can be chained.
func SGD(learningRate float64) *sgd {
	return &sgd{lr: learningRate}
}

// GradientDescent is a proxy for SGD
func GradientDescent(learningRate float64) *sgd {
	return SGD(learningRate)
}

// WithMomentum sets the momentum coefficient, usually something like 0.9.
func (s *sgd) WithMomentum(momentum float64) *sgd {
	s.momentum = momentum
	return s
}

func (s *sgd) TypeString() string {
	return "sgd"
}

func (s *sgd) LearningRate() float64 {
	return s.lr
}

func (s *sgd) SetLearningRate(lr float64) {
	s.lr = lr
}

func (s *sgd) Step(m bs.Model) error {
	params, grads := m.Params(), m.Grads()
	if len(params) != len(grads) {
		return errors.Errorf("model has %d param groups but %d grad groups", len(params), len(grads))
	}

	if s.momentum != 0 && s.velocity == nil {
		s.velocity = zeroLike(params)
	}

	for g := range params {
		w, d := params[g], grads[g]
		if len(w) != len(d) {
			return errors.Errorf("param group %d has %d values but %d gradients", g, len(w), len(d))
		}

		if s.momentum == 0 {
			for i := range w {
				w[i] -= s.lr * d[i]
			}
		} else {
			v := s.velocity[g]
			for i := range w {
				v[i] = s.momentum*v[i] - s.lr*d[i]
				w[i] += v[i]
			}
		}

		clear(d)
	}

	return nil
}

func zeroLike(p bs.Params) bs.Params {
	z := make(bs.Params, len(p))
	for i := range p {
		z[i] = make([]float64, len(p[i]))
	}

	return z
}
