// Package dataset provides in-memory data suppliers for the training loop,
// plus loading of class-per-folder image directories and simple augmentation.
package dataset

import (
	"math/rand"

	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

// InMemory holds a labeled dataset and hands it out in fixed-size batches. By
// default every call to Batches returns the examples in the same order; call
// Shuffle to reorder them on each pass instead.
type InMemory struct {
	inputs [][]float64
	labels []int

	batchSize int
	rng       *rand.Rand
}

// FromSlices wraps pre-built inputs and labels. The slices are retained, not
// copied. batchSize must be >= 1; the final batch of a pass may be smaller.
func FromSlices(inputs [][]float64, labels []int, batchSize int) (*InMemory, error) {
	if len(inputs) != len(labels) {
		return nil, errors.Errorf("misaligned dataset (%d inputs, %d labels)", len(inputs), len(labels))
	} else if len(inputs) == 0 {
		return nil, errors.Errorf("dataset is empty")
	} else if batchSize < 1 {
		return nil, errors.Errorf("batch size must be >= 1 (%d)", batchSize)
	}

	for i := 1; i < len(inputs); i++ {
		if len(inputs[i]) != len(inputs[0]) {
			return nil, errors.Errorf("example %d has %d values; example 0 has %d", i, len(inputs[i]), len(inputs[0]))
		}
	}

	return &InMemory{inputs: inputs, labels: labels, batchSize: batchSize}, nil
}

// Shuffle makes every pass visit the examples in a fresh random order.
func (s *InMemory) Shuffle(seed int64) *InMemory {
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// Len returns the number of examples.
func (s *InMemory) Len() int {
	return len(s.inputs)
}

// InputSize returns the number of values per example.
func (s *InMemory) InputSize() int {
	return len(s.inputs[0])
}

func (s *InMemory) order() []int {
	ord := make([]int, len(s.inputs))
	for i := range ord {
		ord[i] = i
	}

	if s.rng != nil {
		s.rng.Shuffle(len(ord), func(i, j int) {
			ord[i], ord[j] = ord[j], ord[i]
		})
	}

	return ord
}

// Batches implements classroom.DataSupplier. The batches alias the dataset's
// example storage; callers must not write through them.
func (s *InMemory) Batches() ([]bs.Batch, error) {
	ord := s.order()

	var batches []bs.Batch
	for start := 0; start < len(ord); start += s.batchSize {
		end := start + s.batchSize
		if end > len(ord) {
			end = len(ord)
		}

		b := bs.Batch{
			Inputs: make([][]float64, 0, end-start),
			Labels: make([]int, 0, end-start),
		}
		for _, i := range ord[start:end] {
			b.Inputs = append(b.Inputs, s.inputs[i])
			b.Labels = append(b.Labels, s.labels[i])
		}

		batches = append(batches, b)
	}

	return batches, nil
}

// Split partitions the dataset into two: roughly frac of the examples go to
// the first returned set and the rest to the second. The split is random but
// determined by seed, and both halves inherit the batch size.
func (s *InMemory) Split(frac float64, seed int64) (*InMemory, *InMemory, error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, errors.Errorf("split fraction must be within (0, 1) (%v)", frac)
	}

	ord := make([]int, len(s.inputs))
	for i := range ord {
		ord[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ord), func(i, j int) {
		ord[i], ord[j] = ord[j], ord[i]
	})

	n := int(frac * float64(len(ord)))
	if n < 1 || n >= len(ord) {
		return nil, nil, errors.Errorf("split leaves an empty side (%d of %d examples)", n, len(ord))
	}

	pick := func(idxs []int) *InMemory {
		set := &InMemory{batchSize: s.batchSize}
		for _, i := range idxs {
			set.inputs = append(set.inputs, s.inputs[i])
			set.labels = append(set.labels, s.labels[i])
		}
		return set
	}

	return pick(ord[:n]), pick(ord[n:]), nil
}
