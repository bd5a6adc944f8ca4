package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	bs "github.com/sharnoff/classroom"
)

type recSink struct {
	batches int
	epochs  []int
	rates   int
}

func (r *recSink) Batch(epoch, batch int, lossSum float64, size int) { r.batches++ }
func (r *recSink) Epoch(res bs.Result)                               { r.epochs = append(r.epochs, res.Epoch) }
func (r *recSink) RateChanged(epoch int, before, after float64)      { r.rates++ }

func TestMultiFansOut(t *testing.T) {
	a, b := new(recSink), new(recSink)
	m := Multi(a, nil, b)

	m.Batch(1, 0, 2.5, 4)
	m.Epoch(bs.Result{Epoch: 1})
	m.Epoch(bs.Result{Epoch: 2})
	m.RateChanged(2, 0.1, 0.05)

	for _, s := range []*recSink{a, b} {
		if s.batches != 1 || s.rates != 1 {
			t.Fatalf("sink saw %d batches, %d rate changes; want 1, 1", s.batches, s.rates)
		}
		if len(s.epochs) != 2 || s.epochs[0] != 1 || s.epochs[1] != 2 {
			t.Fatalf("sink saw epochs %v, want [1 2]", s.epochs)
		}
	}
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	srv := httptest.NewServer(b)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// the server registers the client from its handler goroutine; give the
	// first report a moment to find it
	deadline := time.Now().Add(time.Second)
	var ev Event
	for {
		b.Epoch(bs.Result{Epoch: 3, LearningRate: 0.1})

		conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		if err := conn.ReadJSON(&ev); err == nil {
			break
		} else if time.Now().After(deadline) {
			t.Fatalf("never received an event: %v", err)
		}
	}

	if ev.Type != "epoch" || ev.Epoch != 3 {
		t.Fatalf("event = %+v, want epoch 3", ev)
	}
	if ev.Result == nil || ev.Result.LearningRate != 0.1 {
		t.Fatalf("event result = %+v", ev.Result)
	}
}

func TestBroadcasterNoClients(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	// must not block or panic with nobody listening
	b.Batch(1, 0, 1.0, 2)
	b.Epoch(bs.Result{Epoch: 1})
	b.RateChanged(1, 0.1, 0.05)
}
