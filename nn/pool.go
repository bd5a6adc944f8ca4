package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

type maxPool struct {
	size int

	c, h, w    int
	outH, outW int

	// argmax records which input index won each output, for Backward
	argmax []int
	outBuf []float64
	inBuf  []float64
}

// MaxPool returns a non-overlapping 2D max pooling layer with the given
// window size; the stride equals the window. Input dimensions that are not a
// multiple of the window are truncated at the bottom/right edges. InputDims
// must be called before the Network is finalized.
func MaxPool(size int) *maxPool {
	return &maxPool{size: size}
}

// InputDims tells the layer the shape of its (flat) input: channels, height,
// width. It can be chained.
func (p *maxPool) InputDims(channels, height, width int) *maxPool {
	p.c, p.h, p.w = channels, height, width
	return p
}

func (p *maxPool) Init(inSize int, rng *rand.Rand) (int, error) {
	if p.size < 1 {
		return 0, errors.Errorf("window size must be >= 1 (%d)", p.size)
	} else if p.c < 1 || p.h < 1 || p.w < 1 {
		return 0, errors.Errorf("input dimensions have not been set (use InputDims)")
	} else if p.c*p.h*p.w != inSize {
		return 0, errors.Errorf("input dimensions (%d, %d, %d) do not match input size %d", p.c, p.h, p.w, inSize)
	}

	p.outH = p.h / p.size
	p.outW = p.w / p.size
	if p.outH < 1 || p.outW < 1 {
		return 0, errors.Errorf("window %d does not fit a %dx%d input", p.size, p.h, p.w)
	}

	p.argmax = make([]int, p.c*p.outH*p.outW)
	p.outBuf = make([]float64, p.c*p.outH*p.outW)
	p.inBuf = make([]float64, inSize)

	return len(p.outBuf), nil
}

func (p *maxPool) Forward(in []float64) []float64 {
	for ch := 0; ch < p.c; ch++ {
		for oy := 0; oy < p.outH; oy++ {
			for ox := 0; ox < p.outW; ox++ {
				best := math.Inf(-1)
				bestAt := -1

				for ky := 0; ky < p.size; ky++ {
					for kx := 0; kx < p.size; kx++ {
						i := (ch*p.h+oy*p.size+ky)*p.w + ox*p.size + kx
						if in[i] > best {
							best = in[i]
							bestAt = i
						}
					}
				}

				o := (ch*p.outH+oy)*p.outW + ox
				p.outBuf[o] = best
				p.argmax[o] = bestAt
			}
		}
	}

	return p.outBuf
}

func (p *maxPool) Backward(dOut []float64) []float64 {
	clear(p.inBuf)
	for o, i := range p.argmax {
		p.inBuf[i] += dOut[o]
	}

	return p.inBuf
}
