package classroom

import (
	"github.com/pkg/errors"
)

// ReduceOnPlateau lowers an Optimizer's learning rate by a fixed factor after
// a run of epochs without sufficient improvement in the observed metric. It
// uses the same improvement rule as EarlyStopping but keeps an entirely
// independent counter, so the two policies firing at different times is
// expected, not a bug.
type ReduceOnPlateau struct {
	opt      Optimizer
	factor   float64
	patience int
	minDelta float64
	minRate  float64

	hasBaseline bool
	best        float64
	count       int
}

// NewReduceOnPlateau returns a ReduceOnPlateau mutating opt's learning rate.
// factor must be in (0, 1); patience must be at least 1. The rate will never
// be reduced below minRate.
func NewReduceOnPlateau(opt Optimizer, factor float64, patience int, minDelta, minRate float64) (*ReduceOnPlateau, error) {
	if opt == nil {
		return nil, NilArgError{"Optimizer"}
	} else if factor <= 0 || factor >= 1 {
		return nil, errors.Errorf("factor must be within (0, 1) (%v)", factor)
	} else if patience < 1 {
		return nil, errors.Errorf("patience must be >= 1 (%d)", patience)
	} else if minDelta < 0 {
		return nil, errors.Errorf("minDelta must be >= 0 (%v)", minDelta)
	}

	return &ReduceOnPlateau{
		opt:      opt,
		factor:   factor,
		patience: patience,
		minDelta: minDelta,
		minRate:  minRate,
	}, nil
}

// Observe feeds one epoch's metric. It returns the learning rate before and
// after; the two are equal unless a reduction happened on this observation.
func (r *ReduceOnPlateau) Observe(val float64) (before, after float64) {
	before = r.opt.LearningRate()
	after = before

	if !r.hasBaseline || val < r.best-r.minDelta {
		r.hasBaseline = true
		r.best = val
		r.count = 0
		return before, after
	}

	r.count++
	if r.count < r.patience {
		return before, after
	}

	r.count = 0
	after = before * r.factor
	if after < r.minRate {
		after = r.minRate
	}

	if after != before {
		r.opt.SetLearningRate(after)
	}

	return before, after
}
