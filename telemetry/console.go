// Package telemetry provides Sink implementations for the training loop: a
// console logger, a fan-out to several sinks, and a websocket broadcaster for
// watching a run live.
package telemetry

import (
	"time"

	"k8s.io/klog/v2"

	bs "github.com/sharnoff/classroom"
)

// Console logs progress through klog. By default it reports epochs and rate
// changes but stays quiet during batches.
type Console struct {
	every int
}

func NewConsole() *Console {
	return new(Console)
}

// EveryBatches makes the Console also log every n-th batch of each epoch.
// Zero (the default) disables batch logging.
func (c *Console) EveryBatches(n int) *Console {
	c.every = n
	return c
}

// Batch implements classroom.Sink.
func (c *Console) Batch(epoch, batch int, lossSum float64, size int) {
	if c.every <= 0 || batch%c.every != 0 {
		return
	}

	klog.Infof("epoch %d batch %d: loss %.4f (%d examples)", epoch, batch, lossSum/float64(size), size)
}

// Epoch implements classroom.Sink.
func (c *Console) Epoch(r bs.Result) {
	klog.Infof("epoch %d: train loss %.4f acc %.2f%% | val loss %.4f acc %.2f%% | lr %g | %s",
		r.Epoch, r.Train.Loss, 100*r.Train.Accuracy,
		r.Val.Loss, 100*r.Val.Accuracy, r.LearningRate, r.Duration.Round(time.Millisecond))
}

// RateChanged implements classroom.Sink.
func (c *Console) RateChanged(epoch int, before, after float64) {
	klog.Infof("epoch %d: learning rate reduced %g -> %g", epoch, before, after)
}
