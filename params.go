package classroom

import (
	"github.com/pkg/errors"
)

// Params is the complete set of adjustable values of a Model, grouped however
// the Model chooses (typically one group per layer with weights). The training
// loop and its policies treat the grouping as opaque.
//
// The slices returned by (Model).Params alias the Model's live storage; use
// Clone to take a snapshot that later updates cannot touch.
type Params [][]float64

// Clone returns an independent copy of p, sharing no backing storage with it.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}

	c := make(Params, len(p))
	for i := range p {
		c[i] = make([]float64, len(p[i]))
		copy(c[i], p[i])
	}

	return c
}

// NumValues returns the total number of values across all groups.
func (p Params) NumValues() int {
	n := 0
	for i := range p {
		n += len(p[i])
	}

	return n
}

// CopyInto writes p's values into dst, which must have the same shape. This is
// how snapshots are restored: values move, backing storage does not.
func (p Params) CopyInto(dst Params) error {
	if len(p) != len(dst) {
		return errors.Errorf("mismatched param groups (%d != %d)", len(p), len(dst))
	}

	for i := range p {
		if len(p[i]) != len(dst[i]) {
			return errors.Errorf("mismatched size of param group %d (%d != %d)", i, len(p[i]), len(dst[i]))
		}

		copy(dst[i], p[i])
	}

	return nil
}

// Equal reports whether p and q hold exactly the same values. Mostly useful
// for verifying that a pass left parameters untouched.
func (p Params) Equal(q Params) bool {
	if len(p) != len(q) {
		return false
	}

	for i := range p {
		if len(p[i]) != len(q[i]) {
			return false
		}

		for j := range p[i] {
			if p[i][j] != q[i][j] {
				return false
			}
		}
	}

	return true
}
