package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/diff/fd"

	bs "github.com/sharnoff/classroom"
	"github.com/sharnoff/classroom/costfuncs"
)

func flatten(p bs.Params) []float64 {
	var out []float64
	for _, g := range p {
		out = append(out, g...)
	}
	return out
}

func unflatten(p bs.Params, x []float64) {
	i := 0
	for _, g := range p {
		copy(g, x[i:i+len(g)])
		i += len(g)
	}
}

// TestGradientsMatchFiniteDifferences verifies the whole backward path by
// comparing accumulated gradients against central finite differences of the
// cost, over a smooth (tanh) network.
func TestGradientsMatchFiniteDifferences(t *testing.T) {
	net := New(4).
		Seed(3).
		Add(Dense(5)).
		Add(Tanh()).
		Add(Dense(3))
	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	cost := costfuncs.CrossEntropy()
	input := []float64{0.2, -0.4, 0.8, 0.1}
	label := 1

	// analytic gradients
	outs, err := net.Forward(input)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := net.Backward(cost.Derivs(outs, label)); err != nil {
		t.Fatalf("Backward: %v", err)
	}
	analytic := flatten(net.Grads())

	// numeric gradients of cost as a function of the flattened parameters
	x0 := flatten(net.Params())
	f := func(x []float64) float64 {
		unflatten(net.Params(), x)
		outs, err := net.Forward(input)
		if err != nil {
			t.Fatalf("Forward: %v", err)
		}
		return cost.Cost(outs, label)
	}

	numeric := make([]float64, len(x0))
	fd.Gradient(numeric, f, x0, &fd.Settings{Formula: fd.Central})

	if len(analytic) != len(numeric) {
		t.Fatalf("gradient lengths differ (%d != %d)", len(analytic), len(numeric))
	}
	for i := range analytic {
		if math.Abs(analytic[i]-numeric[i]) > 1e-5 {
			t.Fatalf("gradient %d: analytic %v, numeric %v", i, analytic[i], numeric[i])
		}
	}
}
