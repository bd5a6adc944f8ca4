package nn

import (
	"math/rand"

	"github.com/pkg/errors"
)

type dropout struct {
	rate float64
	rng  *rand.Rand

	training bool
	mask     []bool
	outBuf   []float64
	inBuf    []float64
}

// Dropout returns a layer that, while training, zeroes each value with the
// given probability and scales the survivors by 1/(1-rate), so that the
// expected activation is unchanged and the layer can be inert during
// validation. rate must be within [0, 1).
func Dropout(rate float64) *dropout {
	return &dropout{rate: rate}
}

func (d *dropout) Init(inSize int, rng *rand.Rand) (int, error) {
	if d.rate < 0 || d.rate >= 1 {
		return 0, errors.Errorf("rate must be within [0, 1) (%v)", d.rate)
	} else if inSize < 1 {
		return 0, errors.Errorf("input size must be >= 1 (%d)", inSize)
	}

	// dedicated source so that turning dropout off doesn't shift everyone
	// else's stream
	d.rng = rand.New(rand.NewSource(rng.Int63()))

	d.mask = make([]bool, inSize)
	d.outBuf = make([]float64, inSize)
	d.inBuf = make([]float64, inSize)
	return inSize, nil
}

func (d *dropout) SetTraining(on bool) {
	d.training = on
}

func (d *dropout) Forward(in []float64) []float64 {
	if !d.training || d.rate == 0 {
		copy(d.outBuf, in)
		for i := range d.mask {
			d.mask[i] = true
		}
		return d.outBuf
	}

	scale := 1 / (1 - d.rate)
	for i, v := range in {
		if d.rng.Float64() < d.rate {
			d.mask[i] = false
			d.outBuf[i] = 0
		} else {
			d.mask[i] = true
			d.outBuf[i] = v * scale
		}
	}

	return d.outBuf
}

func (d *dropout) Backward(dOut []float64) []float64 {
	scale := 1.0
	if d.training && d.rate != 0 {
		scale = 1 / (1 - d.rate)
	}

	for i, kept := range d.mask {
		if kept {
			d.inBuf[i] = dOut[i] * scale
		} else {
			d.inBuf[i] = 0
		}
	}

	return d.inBuf
}
