package classroom

import (
	"testing"
)

func TestEarlyStoppingFiresAtPatience(t *testing.T) {
	// two consecutive non-improving observations after the 4.0 baseline; the
	// flag must flip exactly on the 4th observation
	es, err := NewEarlyStopping(2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	losses := []float64{5.0, 4.0, 4.0, 4.0}
	want := []bool{false, false, false, true}

	for i, l := range losses {
		es.Observe(l, Params{{float64(i)}})
		if es.ShouldStop() != want[i] {
			t.Fatalf("after observation %d (loss %v): ShouldStop() = %v, want %v", i+1, l, es.ShouldStop(), want[i])
		}
	}

	if best, ok := es.Best(); !ok || best != 4.0 {
		t.Fatalf("Best() = %v, %v; want 4.0, true", best, ok)
	}

	// snapshot is from the first loss=4.0 observation (index 1)
	if got := es.BestParams(); got[0][0] != 1 {
		t.Fatalf("best snapshot = %v, want the one from observation 2", got)
	}
}

func TestEarlyStoppingNeverFiresEarly(t *testing.T) {
	// for any patience >= 1, the flag must not flip before 'patience'
	// consecutive non-improving observations
	for patience := 1; patience <= 6; patience++ {
		es, err := NewEarlyStopping(patience, 0)
		if err != nil {
			t.Fatalf("patience %d: %v", patience, err)
		}

		es.Observe(1.0, nil) // baseline
		for i := 0; i < patience-1; i++ {
			es.Observe(1.0, nil)
			if es.ShouldStop() {
				t.Fatalf("patience %d: fired after only %d non-improving observations", patience, i+1)
			}
		}

		es.Observe(1.0, nil)
		if !es.ShouldStop() {
			t.Fatalf("patience %d: did not fire after %d non-improving observations", patience, patience)
		}
	}
}

func TestEarlyStoppingMinDeltaTies(t *testing.T) {
	// an improvement of exactly minDelta is non-improvement
	es, _ := NewEarlyStopping(2, 0.5)

	es.Observe(3.0, nil)
	es.Observe(2.5, nil) // 3.0 - 0.5 exactly: does not count
	es.Observe(2.5, nil)
	if !es.ShouldStop() {
		t.Fatalf("expected stop after two observations at the margin")
	}
	if best, _ := es.Best(); best != 3.0 {
		t.Fatalf("best = %v, want the baseline 3.0", best)
	}
}

func TestEarlyStoppingCounterResets(t *testing.T) {
	es, _ := NewEarlyStopping(2, 0)

	es.Observe(3.0, nil)
	es.Observe(3.0, nil) // count 1
	es.Observe(2.0, nil) // improvement, count back to 0
	es.Observe(2.0, nil) // count 1
	if es.ShouldStop() {
		t.Fatalf("fired even though the counter was reset by an improvement")
	}
	es.Observe(2.0, nil) // count 2
	if !es.ShouldStop() {
		t.Fatalf("did not fire after patience was re-exhausted")
	}
}

func TestEarlyStoppingSnapshotIsIndependent(t *testing.T) {
	es, _ := NewEarlyStopping(3, 0)

	live := Params{{1, 2}, {3}}
	es.Observe(1.0, live)

	// mutating the live parameters must not reach the stored snapshot
	live[0][0] = -99
	live[1][0] = -99

	snap := es.BestParams()
	if snap[0][0] != 1 || snap[1][0] != 3 {
		t.Fatalf("snapshot aliases live parameters: %v", snap)
	}
}

func TestNewEarlyStoppingRejectsBadArgs(t *testing.T) {
	if _, err := NewEarlyStopping(0, 0); err == nil {
		t.Fatalf("patience 0 was accepted")
	}
	if _, err := NewEarlyStopping(1, -0.1); err == nil {
		t.Fatalf("negative minDelta was accepted")
	}
}
