package dataset

import (
	"math/rand"

	"github.com/pkg/errors"

	bs "github.com/sharnoff/classroom"
)

// Augmented wraps another supplier and perturbs each training example on the
// way out: optional horizontal flips and small random shifts, applied with
// fresh randomness on every pass. The source data is never modified; each
// perturbed example is a copy.
//
//	aug := dataset.Augment(train, 3, 32, 32).Flip().Shift(2)
type Augmented struct {
	src bs.DataSupplier

	channels, height, width int

	flip     bool
	maxShift int
	rng      *rand.Rand
}

// Augment wraps src, interpreting each example as a channel-major image with
// the given dimensions.
func Augment(src bs.DataSupplier, channels, height, width int) *Augmented {
	return &Augmented{
		src:      src,
		channels: channels,
		height:   height,
		width:    width,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// Flip enables random horizontal flips (probability 1/2 per example).
func (a *Augmented) Flip() *Augmented {
	a.flip = true
	return a
}

// Shift enables random shifts of up to max pixels along each axis, filling the
// uncovered edge with zeros.
func (a *Augmented) Shift(max int) *Augmented {
	a.maxShift = max
	return a
}

// Seed replaces the augmentation randomness. The default seed is 1.
func (a *Augmented) Seed(seed int64) *Augmented {
	a.rng = rand.New(rand.NewSource(seed))
	return a
}

// Batches implements classroom.DataSupplier.
func (a *Augmented) Batches() ([]bs.Batch, error) {
	if a.channels < 1 || a.height < 1 || a.width < 1 {
		return nil, errors.Errorf("bad image dimensions (%d, %d, %d)", a.channels, a.height, a.width)
	} else if a.maxShift < 0 {
		return nil, errors.Errorf("max shift must be >= 0 (%d)", a.maxShift)
	}

	batches, err := a.src.Batches()
	if err != nil {
		return nil, err
	}

	size := a.channels * a.height * a.width

	out := make([]bs.Batch, len(batches))
	for bi, b := range batches {
		out[bi].Labels = b.Labels
		out[bi].Inputs = make([][]float64, len(b.Inputs))

		for i, in := range b.Inputs {
			if len(in) != size {
				return nil, errors.Errorf("example has %d values; dimensions (%d, %d, %d) need %d",
					len(in), a.channels, a.height, a.width, size)
			}

			out[bi].Inputs[i] = a.perturb(in)
		}
	}

	return out, nil
}

func (a *Augmented) perturb(in []float64) []float64 {
	vs := make([]float64, len(in))
	copy(vs, in)

	if a.flip && a.rng.Intn(2) == 0 {
		vs = a.flipped(vs)
	}
	if a.maxShift > 0 {
		dx := a.rng.Intn(2*a.maxShift+1) - a.maxShift
		dy := a.rng.Intn(2*a.maxShift+1) - a.maxShift
		if dx != 0 || dy != 0 {
			vs = a.shifted(vs, dx, dy)
		}
	}

	return vs
}

func (a *Augmented) flipped(vs []float64) []float64 {
	for c := 0; c < a.channels; c++ {
		plane := vs[c*a.height*a.width : (c+1)*a.height*a.width]
		for y := 0; y < a.height; y++ {
			row := plane[y*a.width : (y+1)*a.width]
			for l, r := 0, a.width-1; l < r; l, r = l+1, r-1 {
				row[l], row[r] = row[r], row[l]
			}
		}
	}

	return vs
}

func (a *Augmented) shifted(vs []float64, dx, dy int) []float64 {
	out := make([]float64, len(vs))
	for c := 0; c < a.channels; c++ {
		src := vs[c*a.height*a.width : (c+1)*a.height*a.width]
		dst := out[c*a.height*a.width : (c+1)*a.height*a.width]

		for y := 0; y < a.height; y++ {
			sy := y - dy
			if sy < 0 || sy >= a.height {
				continue
			}
			for x := 0; x < a.width; x++ {
				sx := x - dx
				if sx < 0 || sx >= a.width {
					continue
				}
				dst[y*a.width+x] = src[sy*a.width+sx]
			}
		}
	}

	return out
}
