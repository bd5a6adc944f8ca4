package classroom

import (
	"github.com/pkg/errors"
)

// Batch is a group of examples processed together in one forward/backward
// step. Inputs and Labels are positionally aligned.
type Batch struct {
	Inputs [][]float64
	Labels []int
}

// Len returns the number of examples in the Batch.
func (b Batch) Len() int {
	return len(b.Inputs)
}

// Check validates the Batch's invariants: it is non-empty, inputs and labels
// line up, and every label is in [0, numClasses). Train and Validate run it
// on every batch once the model's output width is known, before any label
// reaches the cost function.
func (b Batch) Check(numClasses int) error {
	if len(b.Inputs) == 0 {
		return errors.Errorf("batch has no examples")
	} else if len(b.Inputs) != len(b.Labels) {
		return errors.Errorf("batch has %d inputs but %d labels", len(b.Inputs), len(b.Labels))
	}

	for i, l := range b.Labels {
		if l < 0 || l >= numClasses {
			return errors.Errorf("label %d of batch is out of range (%d, not in [0, %d))", i, l, numClasses)
		}
	}

	return nil
}

// Argmax returns the index of the largest value in outs. Ties go to the
// earlier index.
func Argmax(outs []float64) int {
	best := 0
	for i := 1; i < len(outs); i++ {
		if outs[i] > outs[best] {
			best = i
		}
	}

	return best
}
