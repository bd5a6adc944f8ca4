package classroom

// EpochMetrics are the averaged results of one complete dataset pass: the
// mean per-example loss and the fraction of examples classified correctly.
// They are computed once, by (*Accumulator).Finalize, and never modified.
type EpochMetrics struct {
	Loss     float64
	Accuracy float64 // 0 → 1
}

// Accumulator keeps running totals of loss and correct predictions over a
// single dataset pass. It must be freshly created or Reset at the start of
// every pass; carrying totals across passes silently skews both averages.
type Accumulator struct {
	lossSum float64
	correct int
	seen    int
}

// Update folds one batch into the running totals. lossSum is the sum of
// per-example losses for the batch -- not the batch average.
func (a *Accumulator) Update(lossSum float64, batchSize, numCorrect int) {
	a.lossSum += lossSum
	a.correct += numCorrect
	a.seen += batchSize
}

// Finalize returns the averaged metrics for the pass. If no examples have
// been seen, it returns ErrEmptyPass rather than dividing by zero.
func (a *Accumulator) Finalize() (EpochMetrics, error) {
	if a.seen == 0 {
		return EpochMetrics{}, ErrEmptyPass
	}

	return EpochMetrics{
		Loss:     a.lossSum / float64(a.seen),
		Accuracy: float64(a.correct) / float64(a.seen),
	}, nil
}

// Reset clears the Accumulator for a new pass.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
