package classroom

import (
	"github.com/pkg/errors"
)

// EarlyStopping watches a validation loss across epochs and signals when it
// has gone 'patience' consecutive epochs without improving by more than
// minDelta. It also keeps a snapshot of the parameters that produced the best
// loss so far, so the caller can restore them after training ends.
//
// The policy never touches the live model; Observe takes an independent
// snapshot (Params.Clone) whenever it records a new best.
type EarlyStopping struct {
	patience int
	minDelta float64

	hasBaseline bool
	best        float64
	count       int
	stopped     bool
	snapshot    Params
}

// NewEarlyStopping returns an EarlyStopping with no baseline. patience must
// be at least 1; minDelta must not be negative.
func NewEarlyStopping(patience int, minDelta float64) (*EarlyStopping, error) {
	if patience < 1 {
		return nil, errors.Errorf("patience must be >= 1 (%d)", patience)
	} else if minDelta < 0 {
		return nil, errors.Errorf("minDelta must be >= 0 (%v)", minDelta)
	}

	return &EarlyStopping{patience: patience, minDelta: minDelta}, nil
}

// Observe feeds one epoch's validation loss and the current live parameters.
// The first observation always becomes the baseline. After that, improvement
// means valLoss < best - minDelta: a loss exactly at the margin counts as
// non-improvement, so stagnating at the boundary is penalized rather than
// rewarded.
func (es *EarlyStopping) Observe(valLoss float64, current Params) {
	if !es.hasBaseline || valLoss < es.best-es.minDelta {
		es.hasBaseline = true
		es.best = valLoss
		es.snapshot = current.Clone()
		es.count = 0
		return
	}

	es.count++
	if es.count >= es.patience {
		es.stopped = true
	}
}

// ShouldStop reports whether the patience has been exhausted. Once true, it
// stays true.
func (es *EarlyStopping) ShouldStop() bool {
	return es.stopped
}

// Best returns the best validation loss seen so far. ok is false before the
// first observation.
func (es *EarlyStopping) Best() (loss float64, ok bool) {
	return es.best, es.hasBaseline
}

// BestParams returns the snapshot taken at the best observation, or nil if
// there has been none. The returned value is the policy's own copy; nothing
// in the live model aliases it.
func (es *EarlyStopping) BestParams() Params {
	return es.snapshot
}
