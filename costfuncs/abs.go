package costfuncs

import (
	"fmt"
	"math"
)

type abs bool

// Abs returns the Absolute Value cost function against the one-hot encoding
// of the label, which implements classroom.CostFunction.
func Abs() *abs {
	a := abs(false)
	return &a
}

// L1 is a proxy for Abs
func L1() *abs {
	return Abs()
}

func (a *abs) TypeString() string {
	return "abs"
}

func (a *abs) PrintOuts() *abs {
	*a = abs(true)
	return a
}

func (a *abs) NoPrint() *abs {
	*a = abs(false)
	return a
}

func (a *abs) Cost(outs []float64, label int) float64 {
	var sum float64
	for i, o := range outs {
		sum += math.Abs(o - oneHot(i, label))
	}

	sum /= float64(len(outs))

	if bool(*a) {
		fmt.Println(label, outs)
	}

	return sum
}

func (a *abs) Derivs(outs []float64, label int) []float64 {
	n := float64(len(outs))
	ds := make([]float64, len(outs))
	for i, o := range outs {
		ds[i] = math.Copysign(1, o-oneHot(i, label)) / n
	}

	return ds
}
