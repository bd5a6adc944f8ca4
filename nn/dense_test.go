package nn

import (
	"math"
	"math/rand"
	"testing"
)

func TestDenseForwardBackward(t *testing.T) {
	d := Dense(2)
	if _, err := d.Init(3, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// overwrite the random initialization with known values
	ws := d.Weights()
	copy(ws[0], []float64{1, 0, 0, 0, 1, 0}) // 2x3, row-major
	copy(ws[1], []float64{0.5, -0.5})

	out := d.Forward([]float64{1, 2, 3})
	if out[0] != 1.5 || out[1] != 1.5 {
		t.Fatalf("Forward = %v, want [1.5 1.5]", out)
	}

	dIn := d.Backward([]float64{1, 1})
	if dIn[0] != 1 || dIn[1] != 1 || dIn[2] != 0 {
		t.Fatalf("Backward = %v, want [1 1 0]", dIn)
	}

	gs := d.Grads()
	wantGW := []float64{1, 2, 3, 1, 2, 3}
	for i, g := range gs[0] {
		if g != wantGW[i] {
			t.Fatalf("weight grads = %v, want %v", gs[0], wantGW)
		}
	}
	if gs[1][0] != 1 || gs[1][1] != 1 {
		t.Fatalf("bias grads = %v, want [1 1]", gs[1])
	}
}

func TestDenseGradsAccumulate(t *testing.T) {
	d := Dense(1)
	if _, err := d.Init(1, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Forward([]float64{2})
	d.Backward([]float64{1})
	d.Forward([]float64{2})
	d.Backward([]float64{1})

	if g := d.Grads()[0][0]; math.Abs(g-4) > 1e-12 {
		t.Fatalf("accumulated grad = %v, want 4", g)
	}
}

func TestDenseRejectsBadSizes(t *testing.T) {
	if _, err := Dense(0).Init(3, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("size 0 was accepted")
	}
	if _, err := Dense(2).Init(0, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("input size 0 was accepted")
	}
}
