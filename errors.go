package classroom

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned or panicked.
var (
	ErrRegisterWrongType = Error{"Type is not recognized"}
	ErrRegisterNilReturn = Error{"Function return is nil"}

	// ErrEmptyPass is returned by (*Accumulator).Finalize when no examples have
	// been seen. An empty dataset pass indicates a misconfigured run, not a
	// transient condition, so callers should treat it as fatal.
	ErrEmptyPass = Error{"No examples seen in dataset pass"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// NonFiniteLossError is returned from Train when a training batch produces a
// loss that is NaN or infinite. The run is aborted instead of dropping the
// batch; a masked diverging batch corrupts both the metric history and the
// parameter trajectory.
type NonFiniteLossError struct {
	Epoch, Batch int
	Loss         float64
}

func (err NonFiniteLossError) Error() string {
	return fmt.Sprintf("non-finite loss %v on epoch %d, batch %d", err.Loss, err.Epoch, err.Batch)
}
