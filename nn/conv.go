package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

type conv struct {
	filters int
	kernel  int
	stride  int
	pad     int

	// input dims, set by InputDims
	c, h, w int
	// output spatial dims, computed at Init
	outH, outW int

	// weights are stored by filter, then input channel, then kernel row and
	// column; biases are separate
	ws []float64
	bs []float64
	gw []float64
	gb []float64

	input  []float64
	outBuf []float64
	inBuf  []float64
}

// Conv returns a 2D convolution with square kernels, which does not know its
// input dimensions yet -- InputDims must be called before the Network is
// finalized. Stride defaults to 1 and padding to (kernel-1)/2, which keeps
// the spatial size for odd kernels.
func Conv(filters, kernel int) *conv {
	return &conv{
		filters: filters,
		kernel:  kernel,
		stride:  1,
		pad:     (kernel - 1) / 2,
	}
}

// InputDims tells the layer the shape of its (flat) input: channels, height,
// width. It can be chained.
func (c *conv) InputDims(channels, height, width int) *conv {
	c.c, c.h, c.w = channels, height, width
	return c
}

// Stride overrides the default stride of 1.
func (c *conv) Stride(s int) *conv {
	c.stride = s
	return c
}

// Padding overrides the default zero padding of (kernel-1)/2.
func (c *conv) Padding(p int) *conv {
	c.pad = p
	return c
}

func (c *conv) Init(inSize int, rng *rand.Rand) (int, error) {
	if c.filters < 1 || c.kernel < 1 {
		return 0, errors.Errorf("filters and kernel must be >= 1 (%d, %d)", c.filters, c.kernel)
	} else if c.stride < 1 {
		return 0, errors.Errorf("stride must be >= 1 (%d)", c.stride)
	} else if c.pad < 0 {
		return 0, errors.Errorf("padding must be >= 0 (%d)", c.pad)
	} else if c.c < 1 || c.h < 1 || c.w < 1 {
		return 0, errors.Errorf("input dimensions have not been set (use InputDims)")
	} else if c.c*c.h*c.w != inSize {
		return 0, errors.Errorf("input dimensions (%d, %d, %d) do not match input size %d", c.c, c.h, c.w, inSize)
	}

	c.outH = (c.h+2*c.pad-c.kernel)/c.stride + 1
	c.outW = (c.w+2*c.pad-c.kernel)/c.stride + 1
	if c.outH < 1 || c.outW < 1 {
		return 0, errors.Errorf("kernel %d with padding %d does not fit a %dx%d input", c.kernel, c.pad, c.h, c.w)
	}

	// He initialization; the layer is usually followed by a ReLU
	n := c.filters * c.c * c.kernel * c.kernel
	scale := math.Sqrt(2.0 / float64(c.c*c.kernel*c.kernel))
	c.ws = make([]float64, n)
	for i := range c.ws {
		c.ws[i] = rng.NormFloat64() * scale
	}

	c.bs = make([]float64, c.filters)
	c.gw = make([]float64, n)
	c.gb = make([]float64, c.filters)

	c.outBuf = make([]float64, c.filters*c.outH*c.outW)
	c.inBuf = make([]float64, inSize)

	return len(c.outBuf), nil
}

func (c *conv) Forward(in []float64) []float64 {
	c.input = in

	for f := 0; f < c.filters; f++ {
		for oy := 0; oy < c.outH; oy++ {
			for ox := 0; ox < c.outW; ox++ {
				sum := c.bs[f]

				for ch := 0; ch < c.c; ch++ {
					for ky := 0; ky < c.kernel; ky++ {
						iy := oy*c.stride + ky - c.pad
						if iy < 0 || iy >= c.h {
							continue
						}

						for kx := 0; kx < c.kernel; kx++ {
							ix := ox*c.stride + kx - c.pad
							if ix < 0 || ix >= c.w {
								continue
							}

							sum += c.ws[c.wIndex(f, ch, ky, kx)] * in[(ch*c.h+iy)*c.w+ix]
						}
					}
				}

				c.outBuf[(f*c.outH+oy)*c.outW+ox] = sum
			}
		}
	}

	return c.outBuf
}

func (c *conv) Backward(dOut []float64) []float64 {
	clear(c.inBuf)

	for f := 0; f < c.filters; f++ {
		for oy := 0; oy < c.outH; oy++ {
			for ox := 0; ox < c.outW; ox++ {
				d := dOut[(f*c.outH+oy)*c.outW+ox]
				c.gb[f] += d

				for ch := 0; ch < c.c; ch++ {
					for ky := 0; ky < c.kernel; ky++ {
						iy := oy*c.stride + ky - c.pad
						if iy < 0 || iy >= c.h {
							continue
						}

						for kx := 0; kx < c.kernel; kx++ {
							ix := ox*c.stride + kx - c.pad
							if ix < 0 || ix >= c.w {
								continue
							}

							in := (ch*c.h+iy)*c.w + ix
							w := c.wIndex(f, ch, ky, kx)

							c.gw[w] += d * c.input[in]
							c.inBuf[in] += d * c.ws[w]
						}
					}
				}
			}
		}
	}

	return c.inBuf
}

func (c *conv) wIndex(f, ch, ky, kx int) int {
	return ((f*c.c+ch)*c.kernel+ky)*c.kernel + kx
}

func (c *conv) Weights() [][]float64 {
	return [][]float64{c.ws, c.bs}
}

func (c *conv) Grads() [][]float64 {
	return [][]float64{c.gw, c.gb}
}
