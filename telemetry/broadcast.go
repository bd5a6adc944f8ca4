package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	bs "github.com/sharnoff/classroom"
)

// Event is what the Broadcaster sends to each connected client, one JSON
// message per report. Type is "batch", "epoch" or "rate".
type Event struct {
	Type  string `json:"type"`
	Epoch int    `json:"epoch"`

	Batch   int     `json:"batch,omitempty"`
	LossSum float64 `json:"lossSum,omitempty"`
	Size    int     `json:"size,omitempty"`

	Result *bs.Result `json:"result,omitempty"`

	Before float64 `json:"before,omitempty"`
	After  float64 `json:"after,omitempty"`
}

// Broadcaster pushes training telemetry to websocket clients, for watching a
// run from a browser. It implements both classroom.Sink and http.Handler;
// mount it wherever convenient:
//
//	b := telemetry.NewBroadcaster()
//	http.Handle("/live", b)
//
// Reports sent while no client is connected are dropped, not queued.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		conns: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		klog.Warningf("websocket upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	b.conns[conn] = true
	b.mu.Unlock()
}

func (b *Broadcaster) send(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.conns {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(b.conns, conn)
		}
	}
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.conns {
		conn.Close()
		delete(b.conns, conn)
	}
}

// Batch implements classroom.Sink.
func (b *Broadcaster) Batch(epoch, batch int, lossSum float64, size int) {
	b.send(Event{Type: "batch", Epoch: epoch, Batch: batch, LossSum: lossSum, Size: size})
}

// Epoch implements classroom.Sink.
func (b *Broadcaster) Epoch(r bs.Result) {
	b.send(Event{Type: "epoch", Epoch: r.Epoch, Result: &r})
}

// RateChanged implements classroom.Sink.
func (b *Broadcaster) RateChanged(epoch int, before, after float64) {
	b.send(Event{Type: "rate", Epoch: epoch, Before: before, After: after})
}
