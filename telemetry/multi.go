package telemetry

import (
	bs "github.com/sharnoff/classroom"
)

type multi []bs.Sink

// Multi fans every report out to each of the given sinks, in order. Nil
// entries are skipped.
func Multi(sinks ...bs.Sink) bs.Sink {
	var ms multi
	for _, s := range sinks {
		if s != nil {
			ms = append(ms, s)
		}
	}

	return ms
}

func (ms multi) Batch(epoch, batch int, lossSum float64, size int) {
	for _, s := range ms {
		s.Batch(epoch, batch, lossSum, size)
	}
}

func (ms multi) Epoch(r bs.Result) {
	for _, s := range ms {
		s.Epoch(r)
	}
}

func (ms multi) RateChanged(epoch int, before, after float64) {
	for _, s := range ms {
		s.RateChanged(epoch, before, after)
	}
}
