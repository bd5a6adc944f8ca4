// Package classroom provides a training harness for small supervised image
// classifiers: a training/validation loop with per-epoch metrics, early
// stopping, learning-rate reduction on plateaus, and checkpointing.
//
// The loop treats everything heavy as a collaborator behind a small
// interface: the Model computes scores and gradients, the Optimizer applies
// them, the CostFunction scores outputs, DataSuppliers hand over batches,
// and a Checkpointer and Sink take care of persistence and telemetry.
// Implementations for all of these live in the subpackages "nn", "costfuncs",
// "optimizers", "checkpoints", "dataset", "history" and "telemetry".
//
// Training
//
// Training is driven by a single call, with the type TrainArgs used as a
// proxy for the type of optional arguments that are available in other
// languages (such as Python):
//
//		stop, _ := classroom.NewEarlyStopping(5, 0)
//		rate, _ := classroom.NewReduceOnPlateau(opt, 0.5, 3, 0, 1e-6)
//
//		res, err := classroom.Train(classroom.TrainArgs{
//			Model:     mdl,
//			Opt:       opt,
//			Cost:      costfuncs.CrossEntropy(),
//			TrainData: train,
//			ValData:   val,
//			MaxEpochs: 50,
//			Stopper:   stop,
//			Rate:      rate,
//		})
//
// Each epoch runs a full pass over the training data (one optimizer step per
// batch), a forward-only pass over the validation data, the learning-rate
// policy, a checkpoint, and the early-stopping check, in that order. When the
// Stopper fires, the remaining epochs are skipped and Train restores the
// parameters from the best epoch before returning.
//
// Snapshots
//
// Policies never hold live references into the Model. EarlyStopping copies
// the parameters (Params.Clone) whenever it records a new best, so later
// optimizer steps cannot reach back into a stored snapshot.
//
// Evaluation
//
// A standalone forward-only pass is available as Validate, which is also
// what Train uses for its validation phase:
//
//		m, err := classroom.Validate(mdl, costfuncs.CrossEntropy(), test)
package classroom
