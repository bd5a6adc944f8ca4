package nn

import (
	"math/rand"
	"testing"
)

func TestConvKnownKernel(t *testing.T) {
	c := Conv(1, 3).InputDims(1, 3, 3)
	if _, err := c.Init(9, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ws := c.Weights()
	for i := range ws[0] {
		ws[0][i] = 1 // box kernel
	}
	ws[1][0] = 0

	in := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	out := c.Forward(in)

	if len(out) != 9 {
		t.Fatalf("output has %d values, want 9 (same padding)", len(out))
	}
	if out[4] != 45 {
		t.Fatalf("center = %v, want 45", out[4])
	}
	// top-left corner only sees the 2x2 block around it
	if out[0] != 1+2+4+5 {
		t.Fatalf("corner = %v, want 12", out[0])
	}
}

func TestConvOutputDims(t *testing.T) {
	// no padding: 5x5 input, 3x3 kernel -> 3x3 per filter
	c := Conv(2, 3).InputDims(1, 5, 5).Padding(0)
	n, err := c.Init(25, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2*3*3 {
		t.Fatalf("output size = %d, want 18", n)
	}
}

func TestConvRequiresInputDims(t *testing.T) {
	if _, err := Conv(1, 3).Init(9, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("missing InputDims was accepted")
	}
	if _, err := Conv(1, 3).InputDims(1, 2, 2).Init(9, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("mismatched InputDims was accepted")
	}
}

func TestMaxPool(t *testing.T) {
	p := MaxPool(2).InputDims(1, 4, 4)
	n, err := p.Init(16, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("output size = %d, want 4", n)
	}

	in := []float64{
		1, 2, 0, 0,
		3, 4, 0, 5,
		0, 0, 9, 0,
		6, 0, 0, 0,
	}
	out := p.Forward(in)

	want := []float64{4, 5, 6, 9}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("Forward = %v, want %v", out, want)
		}
	}

	// gradient routes back to the argmax positions only
	dIn := p.Backward([]float64{1, 1, 1, 1})
	var nonZero int
	for _, d := range dIn {
		if d != 0 {
			nonZero++
		}
	}
	if nonZero != 4 {
		t.Fatalf("gradient reached %d inputs, want 4", nonZero)
	}
	if dIn[5] != 1 { // position of the 4
		t.Fatalf("gradient did not reach the max position: %v", dIn)
	}
}
