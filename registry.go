package classroom

import (
	"github.com/pkg/errors"
)

// The registries exist so that run configurations and checkpoints can refer
// to cost functions and optimizers by their TypeString. Implementations
// register themselves from init() in their own packages; importing
// "classroom/costfuncs" or "classroom/optimizers" is what fills these in.

var (
	costFunctions    = make(map[string]func() CostFunction)
	optimizerMakers  = make(map[string]func() Optimizer)
	defaultOptimizer func() Optimizer
)

// RegisterCostFunction makes a CostFunction constructor available under the
// given name, usually the TypeString of what it returns. Registering a name
// twice is an error.
func RegisterCostFunction(name string, f func() CostFunction) error {
	if f == nil {
		return NilArgError{"Constructor"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	} else if _, ok := costFunctions[name]; ok {
		return errors.Errorf("CostFunction %q has already been registered", name)
	}

	costFunctions[name] = f
	return nil
}

// RegisterOptimizer makes an Optimizer constructor available under the given
// name. Registering a name twice is an error.
func RegisterOptimizer(name string, f func() Optimizer) error {
	if f == nil {
		return NilArgError{"Constructor"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	} else if _, ok := optimizerMakers[name]; ok {
		return errors.Errorf("Optimizer %q has already been registered", name)
	}

	optimizerMakers[name] = f
	return nil
}

// CostFunctionFrom returns a fresh CostFunction of the named type.
// ErrRegisterWrongType is returned if nothing was registered under the name.
func CostFunctionFrom(name string) (CostFunction, error) {
	f, ok := costFunctions[name]
	if !ok {
		return nil, ErrRegisterWrongType
	}

	return f(), nil
}

// OptimizerFrom returns a fresh Optimizer of the named type.
// ErrRegisterWrongType is returned if nothing was registered under the name.
func OptimizerFrom(name string) (Optimizer, error) {
	f, ok := optimizerMakers[name]
	if !ok {
		return nil, ErrRegisterWrongType
	}

	return f(), nil
}

// SetDefaultOptimizer sets the constructor used when no optimizer is named.
func SetDefaultOptimizer(f func() Optimizer) {
	defaultOptimizer = f
}

// DefaultOptimizer returns a fresh Optimizer from the default constructor,
// or nil if none has been set.
func DefaultOptimizer() Optimizer {
	if defaultOptimizer == nil {
		return nil
	}

	return defaultOptimizer()
}
