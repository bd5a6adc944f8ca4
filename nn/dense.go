package nn

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type dense struct {
	in, out int

	w  *mat.Dense // out x in
	b  []float64
	gw *mat.Dense
	gb []float64

	input  []float64
	outBuf []float64
	inBuf  []float64
}

// Dense returns a fully-connected layer with the given number of outputs.
// Weights are initialized with Xavier scaling; biases start at zero.
func Dense(size int) *dense {
	return &dense{out: size}
}

func (d *dense) Init(inSize int, rng *rand.Rand) (int, error) {
	if d.out < 1 {
		return 0, errors.Errorf("size must be >= 1 (%d)", d.out)
	} else if inSize < 1 {
		return 0, errors.Errorf("input size must be >= 1 (%d)", inSize)
	}

	d.in = inSize

	ws := make([]float64, d.out*inSize)
	scale := math.Sqrt(6.0 / float64(inSize+d.out))
	for i := range ws {
		ws[i] = (2*rng.Float64() - 1) * scale
	}

	d.w = mat.NewDense(d.out, inSize, ws)
	d.b = make([]float64, d.out)
	d.gw = mat.NewDense(d.out, inSize, nil)
	d.gb = make([]float64, d.out)

	d.outBuf = make([]float64, d.out)
	d.inBuf = make([]float64, inSize)

	return d.out, nil
}

func (d *dense) Forward(in []float64) []float64 {
	d.input = in

	out := mat.NewVecDense(d.out, d.outBuf)
	out.MulVec(d.w, mat.NewVecDense(d.in, in))

	for i := range d.outBuf {
		d.outBuf[i] += d.b[i]
	}

	return d.outBuf
}

func (d *dense) Backward(dOut []float64) []float64 {
	dOutVec := mat.NewVecDense(d.out, dOut)

	// gw += dOut ⊗ input; gb += dOut
	d.gw.RankOne(d.gw, 1, dOutVec, mat.NewVecDense(d.in, d.input))
	for i := range d.gb {
		d.gb[i] += dOut[i]
	}

	dIn := mat.NewVecDense(d.in, d.inBuf)
	dIn.MulVec(d.w.T(), dOutVec)

	return d.inBuf
}

func (d *dense) Weights() [][]float64 {
	return [][]float64{d.w.RawMatrix().Data, d.b}
}

func (d *dense) Grads() [][]float64 {
	return [][]float64{d.gw.RawMatrix().Data, d.gb}
}
