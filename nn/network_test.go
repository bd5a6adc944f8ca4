package nn

import (
	"testing"
)

func buildSmall(t *testing.T, seed int64) *Network {
	t.Helper()

	net := New(4).
		Seed(seed).
		Add(Dense(6)).
		Add(ReLU()).
		Add(Dense(3))

	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	return net
}

func TestNetworkForwardShape(t *testing.T) {
	net := buildSmall(t, 1)

	if net.OutputSize() != 3 {
		t.Fatalf("OutputSize = %d, want 3", net.OutputSize())
	}

	out, err := net.Forward([]float64{1, 0, -1, 0.5})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d outputs, want 3", len(out))
	}

	if _, err := net.Forward([]float64{1, 2}); err == nil {
		t.Fatalf("wrong input size was accepted")
	}
}

func TestNetworkSeedDeterminism(t *testing.T) {
	a := buildSmall(t, 7)
	b := buildSmall(t, 7)
	c := buildSmall(t, 8)

	if !a.Params().Equal(b.Params()) {
		t.Fatalf("same seed produced different weights")
	}
	if a.Params().Equal(c.Params()) {
		t.Fatalf("different seeds produced identical weights")
	}
}

func TestNetworkSetParamsRoundTrip(t *testing.T) {
	net := buildSmall(t, 1)

	snap := net.Params().Clone()
	in := []float64{0.1, 0.2, 0.3, 0.4}

	before, err := net.Forward(in)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	// scribble over the weights, then restore the snapshot
	for _, g := range net.Params() {
		for i := range g {
			g[i] = -1
		}
	}
	if err := net.SetParams(snap); err != nil {
		t.Fatalf("SetParams: %v", err)
	}

	after, err := net.Forward(in)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("restored network diverges: %v != %v", before, after)
		}
	}
}

func TestNetworkConstructionErrors(t *testing.T) {
	if err := New(0).Add(Dense(2)).Finalize(); err == nil {
		t.Fatalf("input size 0 was accepted")
	}
	if err := New(4).Finalize(); err == nil {
		t.Fatalf("empty network was accepted")
	}
	if err := New(4).Add(nil).Add(Dense(2)).Finalize(); err == nil {
		t.Fatalf("nil layer was accepted")
	}

	net := New(4).Add(Dense(2))
	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if net.Add(Dense(2)).Error() == nil {
		t.Fatalf("Add after Finalize was accepted")
	}
}

func TestDropoutInertDuringValidation(t *testing.T) {
	net := New(8).Add(Dropout(0.5))
	if err := net.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	in := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	net.SetTraining(false)
	out, err := net.Forward(in)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("dropout was active during validation: %v", out)
		}
	}

	// while training, roughly half the values should be dropped; with 8
	// values just check that something changed over a few passes
	net.SetTraining(true)
	dropped := false
	for pass := 0; pass < 10 && !dropped; pass++ {
		out, err = net.Forward(in)
		if err != nil {
			t.Fatalf("Forward: %v", err)
		}
		for i := range in {
			if out[i] == 0 {
				dropped = true
			}
		}
	}
	if !dropped {
		t.Fatalf("dropout never dropped anything while training")
	}
}
