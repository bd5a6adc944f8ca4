package classroom

// Model is the differentiable black box being trained: a function from a
// fixed-size input to per-class scores, plus access to its parameters.
type Model interface {
	// Forward computes the per-class scores for a single example.
	Forward(input []float64) ([]float64, error)

	// Backward accumulates parameter gradients, given the derivative of the
	// cost with respect to each output score. It is only called during
	// training passes; a validation pass is forward-only.
	Backward(derivs []float64) error

	// Params returns the live parameter groups. The returned slices alias the
	// Model's own storage -- they are what an Optimizer mutates. Snapshots
	// must go through Params.Clone.
	Params() Params

	// Grads returns the accumulated gradient groups, aligned with Params.
	Grads() Params

	// SetParams copies the given values into the live parameters. The Model
	// must not retain the argument's backing storage.
	SetParams(Params) error

	// SetTraining toggles training-only behavior, such as dropout. The loop
	// enables it for training passes and disables it for validation.
	SetTraining(bool)
}

// Optimizer applies accumulated gradients to a Model's parameters.
type Optimizer interface {
	// Step applies one update from m's accumulated gradients to its live
	// parameters, then clears the gradients.
	Step(m Model) error

	LearningRate() float64
	SetLearningRate(float64)

	// TypeString returns the string corresponding to the type of the Optimizer.
	// For example: the Optimizer "Adam" should return "adam", or something
	// to that effect.
	TypeString() string
}

// CostFunction scores the output of a Model against the true class of the
// example that produced it.
type CostFunction interface {
	// Cost returns the loss of a single example, given the Model's output
	// scores and the index of the correct class.
	Cost(outs []float64, label int) float64

	// Derivs returns the derivative of the cost with respect to each output
	// score. It may assume Cost has been called with the same arguments.
	Derivs(outs []float64, label int) []float64

	// TypeString returns the string corresponding to the type of the
	// CostFunction, used for registration.
	TypeString() string
}

// DataSupplier provides the batches for one complete dataset pass.
type DataSupplier interface {
	// Batches is called once per pass. Implementations are free to return the
	// same batches in a different order on each call -- shuffling is the
	// supplier's policy, not the loop's.
	Batches() ([]Batch, error)
}

// Checkpointer persists parameter sets under string tags such as "epoch-3",
// "best" or "final". The storage format is its own concern.
type Checkpointer interface {
	Save(p Params, tag string) error
	Load(tag string) (Params, error)
}

// Sink receives training telemetry. The loop only decides what to report;
// display and storage belong to implementations. All methods are called from
// the loop's goroutine.
type Sink interface {
	// Batch reports one training batch: the sum of per-example losses and the
	// number of examples. Batch indexes restart at 0 each epoch.
	Batch(epoch, batch int, lossSum float64, size int)

	// Epoch reports a completed epoch.
	Epoch(r Result)

	// RateChanged reports that the learning rate moved from before to after.
	RateChanged(epoch int, before, after float64)
}
