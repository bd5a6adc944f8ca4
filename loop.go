package classroom

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// TrainArgs is used as a proxy for the optional arguments available in other
// languages. Model, Opt, Cost, TrainData and ValData are required; everything
// else may be left nil to disable the corresponding feature.
type TrainArgs struct {
	Model Model
	Opt   Optimizer
	Cost  CostFunction

	TrainData DataSupplier
	ValData   DataSupplier

	// MaxEpochs bounds the run. Zero means no training at all: the Model's
	// parameters are returned untouched.
	MaxEpochs int

	// Stopper ends the run once validation loss has stagnated, and holds the
	// snapshot that Train restores before returning.
	Stopper *EarlyStopping

	// Rate adjusts Opt's learning rate on validation-loss plateaus.
	Rate *ReduceOnPlateau

	// Checkpoints, if non-nil, receives the parameters after every epoch
	// (tagged "epoch-N") and the restored best set (tagged "best"). A failed
	// save aborts the run; silently losing recovery points defeats the point
	// of having them.
	Checkpoints Checkpointer

	// Sink receives telemetry. Nil discards it.
	Sink Sink
}

// Result describes one completed epoch.
type Result struct {
	// Epoch is 1-based; Result{Epoch: 3} is the third complete pass.
	Epoch int

	Train EpochMetrics
	Val   EpochMetrics

	// LearningRate is the optimizer's rate at the end of the epoch, after any
	// plateau adjustment.
	LearningRate float64

	Duration time.Duration
}

// TrainResult summarizes a finished run.
type TrainResult struct {
	// Epochs is the number of completed epochs. It is less than MaxEpochs
	// when early stopping fired.
	Epochs int

	// Stopped is true when the run ended through early stopping rather than
	// by exhausting MaxEpochs.
	Stopped bool

	History []Result

	// BestLoss is the best validation loss seen, which is also the criterion
	// for the parameters Train leaves in the Model. BestAccuracy is the best
	// validation accuracy seen; it is reported for reference only and selects
	// nothing. Keeping two competing "best" snapshots and returning one of
	// them invites confusion, so this implementation tracks a single
	// loss-based snapshot.
	BestLoss     float64
	BestAccuracy float64
}

// Train runs up to MaxEpochs training/validation passes. Each epoch, in
// order: a full pass over TrainData with one optimizer step per batch; a
// forward-only pass over ValData; learning-rate adjustment; a checkpoint;
// the early-stopping check; and best-accuracy bookkeeping. If the Stopper
// fires, remaining epochs are skipped entirely.
//
// On return -- early-stopped or not -- the Stopper's best snapshot (when one
// exists) has been restored into the Model.
func Train(args TrainArgs) (TrainResult, error) {
	var res TrainResult

	// handle error cases and set defaults
	{
		if args.Model == nil {
			return res, NilArgError{"Model"}
		} else if args.Opt == nil {
			return res, NilArgError{"Optimizer"}
		} else if args.Cost == nil {
			return res, NilArgError{"CostFunction"}
		} else if args.TrainData == nil {
			return res, NilArgError{"TrainData"}
		} else if args.ValData == nil {
			return res, NilArgError{"ValData"}
		}

		if args.MaxEpochs < 0 {
			return res, errors.Errorf("MaxEpochs must be >= 0 (%d)", args.MaxEpochs)
		}

		if args.Sink == nil {
			args.Sink = discardSink{}
		}
	}

	if args.MaxEpochs == 0 {
		return res, nil
	}

	var acc Accumulator

	for epoch := 1; epoch <= args.MaxEpochs; epoch++ {
		start := time.Now()

		trainMetrics, err := trainPass(&args, &acc, epoch)
		if err != nil {
			return res, err
		}

		valMetrics, err := Validate(args.Model, args.Cost, args.ValData)
		if err != nil {
			return res, errors.Wrapf(err, "Validation pass of epoch %d failed\n", epoch)
		}

		if args.Rate != nil {
			before, after := args.Rate.Observe(valMetrics.Loss)
			if before != after {
				args.Sink.RateChanged(epoch, before, after)
			}
		}

		if args.Checkpoints != nil {
			tag := fmt.Sprintf("epoch-%d", epoch)
			if err := args.Checkpoints.Save(args.Model.Params(), tag); err != nil {
				return res, errors.Wrapf(err, "Failed to save checkpoint %q\n", tag)
			}
		}

		r := Result{
			Epoch:        epoch,
			Train:        trainMetrics,
			Val:          valMetrics,
			LearningRate: args.Opt.LearningRate(),
			Duration:     time.Since(start),
		}
		args.Sink.Epoch(r)

		res.History = append(res.History, r)
		res.Epochs = epoch
		if epoch == 1 || valMetrics.Loss < res.BestLoss {
			res.BestLoss = valMetrics.Loss
		}
		if valMetrics.Accuracy > res.BestAccuracy {
			res.BestAccuracy = valMetrics.Accuracy
		}

		if args.Stopper != nil {
			args.Stopper.Observe(valMetrics.Loss, args.Model.Params())
			if args.Stopper.ShouldStop() {
				res.Stopped = true
				break
			}
		}
	}

	// restore the best parameters before handing the Model back
	if args.Stopper != nil {
		if best := args.Stopper.BestParams(); best != nil {
			if err := args.Model.SetParams(best); err != nil {
				return res, errors.Wrapf(err, "Failed to restore best parameters\n")
			}

			if args.Checkpoints != nil {
				if err := args.Checkpoints.Save(args.Model.Params(), "best"); err != nil {
					return res, errors.Wrapf(err, "Failed to save checkpoint %q\n", "best")
				}
			}
		}
	}

	return res, nil
}

// trainPass runs one full pass over the training data, stepping the optimizer
// after every batch.
func trainPass(args *TrainArgs, acc *Accumulator, epoch int) (EpochMetrics, error) {
	args.Model.SetTraining(true)
	defer args.Model.SetTraining(false)

	acc.Reset()

	batches, err := args.TrainData.Batches()
	if err != nil {
		return EpochMetrics{}, errors.Wrapf(err, "Failed to get training batches for epoch %d\n", epoch)
	}

	// the number of classes is whatever width the model produces; it is
	// learned from the first Forward, after which every batch is validated
	// with Check before its labels reach the cost function
	numClasses := 0

	for bi, b := range batches {
		if b.Len() == 0 {
			return EpochMetrics{}, errors.Errorf("training batch %d of epoch %d is empty", bi, epoch)
		} else if len(b.Inputs) != len(b.Labels) {
			return EpochMetrics{}, errors.Errorf("training batch %d of epoch %d is misaligned (%d inputs, %d labels)",
				bi, epoch, len(b.Inputs), len(b.Labels))
		}

		if numClasses > 0 {
			if err := b.Check(numClasses); err != nil {
				return EpochMetrics{}, errors.Wrapf(err, "Bad training batch %d of epoch %d\n", bi, epoch)
			}
		}

		var lossSum float64
		var correct int

		for i := range b.Inputs {
			outs, err := args.Model.Forward(b.Inputs[i])
			if err != nil {
				return EpochMetrics{}, errors.Wrapf(err, "Forward pass failed on epoch %d, batch %d, example %d\n", epoch, bi, i)
			}

			if numClasses == 0 {
				numClasses = len(outs)
				if err := b.Check(numClasses); err != nil {
					return EpochMetrics{}, errors.Wrapf(err, "Bad training batch %d of epoch %d\n", bi, epoch)
				}
			}

			loss := args.Cost.Cost(outs, b.Labels[i])
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				return EpochMetrics{}, NonFiniteLossError{Epoch: epoch, Batch: bi, Loss: loss}
			}

			lossSum += loss
			if Argmax(outs) == b.Labels[i] {
				correct++
			}

			if err := args.Model.Backward(args.Cost.Derivs(outs, b.Labels[i])); err != nil {
				return EpochMetrics{}, errors.Wrapf(err, "Backward pass failed on epoch %d, batch %d, example %d\n", epoch, bi, i)
			}
		}

		if err := args.Opt.Step(args.Model); err != nil {
			return EpochMetrics{}, errors.Wrapf(err, "Optimizer step failed on epoch %d, batch %d\n", epoch, bi)
		}

		acc.Update(lossSum, b.Len(), correct)
		args.Sink.Batch(epoch, bi, lossSum, b.Len())
	}

	m, err := acc.Finalize()
	if err != nil {
		return EpochMetrics{}, errors.Wrapf(err, "Training pass of epoch %d produced no metrics\n", epoch)
	}

	return m, nil
}

// Validate runs one forward-only pass over data and returns the averaged
// metrics. It never calls Backward or the optimizer, so the Model's
// parameters are left exactly as they were.
func Validate(m Model, cost CostFunction, data DataSupplier) (EpochMetrics, error) {
	if m == nil {
		return EpochMetrics{}, NilArgError{"Model"}
	} else if cost == nil {
		return EpochMetrics{}, NilArgError{"CostFunction"}
	} else if data == nil {
		return EpochMetrics{}, NilArgError{"DataSupplier"}
	}

	m.SetTraining(false)

	batches, err := data.Batches()
	if err != nil {
		return EpochMetrics{}, errors.Wrapf(err, "Failed to get batches\n")
	}

	var acc Accumulator
	numClasses := 0

	for bi, b := range batches {
		if b.Len() == 0 {
			return EpochMetrics{}, errors.Errorf("batch %d is empty", bi)
		} else if len(b.Inputs) != len(b.Labels) {
			return EpochMetrics{}, errors.Errorf("batch %d is misaligned (%d inputs, %d labels)", bi, len(b.Inputs), len(b.Labels))
		}

		if numClasses > 0 {
			if err := b.Check(numClasses); err != nil {
				return EpochMetrics{}, errors.Wrapf(err, "Bad batch %d\n", bi)
			}
		}

		var lossSum float64
		var correct int

		for i := range b.Inputs {
			outs, err := m.Forward(b.Inputs[i])
			if err != nil {
				return EpochMetrics{}, errors.Wrapf(err, "Forward pass failed on batch %d, example %d\n", bi, i)
			}

			if numClasses == 0 {
				numClasses = len(outs)
				if err := b.Check(numClasses); err != nil {
					return EpochMetrics{}, errors.Wrapf(err, "Bad batch %d\n", bi)
				}
			}

			lossSum += cost.Cost(outs, b.Labels[i])
			if Argmax(outs) == b.Labels[i] {
				correct++
			}
		}

		acc.Update(lossSum, b.Len(), correct)
	}

	return acc.Finalize()
}

type discardSink struct{}

func (discardSink) Batch(epoch, batch int, lossSum float64, size int) {}
func (discardSink) Epoch(r Result)                                   {}
func (discardSink) RateChanged(epoch int, before, after float64)     {}
