package classroom

import (
	"testing"
)

func TestReduceOnPlateauReduces(t *testing.T) {
	opt := &stubOpt{lr: 0.1}
	r, err := NewReduceOnPlateau(opt, 0.5, 2, 0, 1e-6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Observe(5.0) // baseline
	r.Observe(4.0) // improvement
	r.Observe(4.0) // count 1
	if opt.lr != 0.1 {
		t.Fatalf("rate changed before patience was exhausted: %v", opt.lr)
	}

	before, after := r.Observe(4.0) // count 2: reduce
	if before != 0.1 || after != 0.05 {
		t.Fatalf("Observe returned (%v, %v), want (0.1, 0.05)", before, after)
	}
	if opt.lr != 0.05 {
		t.Fatalf("optimizer rate = %v, want 0.05", opt.lr)
	}
}

func TestReduceOnPlateauCounterRestartsAfterReduction(t *testing.T) {
	opt := &stubOpt{lr: 1.0}
	r, _ := NewReduceOnPlateau(opt, 0.1, 1, 0, 1e-6)

	r.Observe(2.0) // baseline
	r.Observe(2.0) // reduce: 0.1
	r.Observe(2.0) // reduce again: 0.01
	if opt.lr < 0.0099 || opt.lr > 0.0101 {
		t.Fatalf("rate = %v, want 0.01", opt.lr)
	}
}

func TestReduceOnPlateauRespectsFloor(t *testing.T) {
	opt := &stubOpt{lr: 0.1}
	r, _ := NewReduceOnPlateau(opt, 0.5, 1, 0, 0.08)

	r.Observe(1.0)
	_, after := r.Observe(1.0)
	if after != 0.08 {
		t.Fatalf("rate = %v, want clamped to 0.08", after)
	}

	// already at the floor: no change, no further mutation
	before, after := r.Observe(1.0)
	if before != 0.08 || after != 0.08 {
		t.Fatalf("Observe at floor returned (%v, %v)", before, after)
	}
}

func TestNewReduceOnPlateauRejectsBadArgs(t *testing.T) {
	opt := &stubOpt{lr: 0.1}

	if _, err := NewReduceOnPlateau(nil, 0.5, 1, 0, 0); err == nil {
		t.Fatalf("nil optimizer was accepted")
	}
	if _, err := NewReduceOnPlateau(opt, 1.0, 1, 0, 0); err == nil {
		t.Fatalf("factor 1.0 was accepted")
	}
	if _, err := NewReduceOnPlateau(opt, 0.5, 0, 0, 0); err == nil {
		t.Fatalf("patience 0 was accepted")
	}
}
