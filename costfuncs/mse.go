package costfuncs

import (
	"fmt"
	"math"
)

type mse bool

// MSE returns the mean squared error cost function against the one-hot
// encoding of the label, which implements classroom.CostFunction.
func MSE() *mse {
	m := mse(false)
	return &m
}

// L2 is a proxy for MSE
func L2() *mse {
	return MSE()
}

func (m *mse) TypeString() string {
	return "mse"
}

func (m *mse) PrintOuts() *mse {
	*m = mse(true)
	return m
}

func (m *mse) NoPrint() *mse {
	*m = mse(false)
	return m
}

func (m *mse) Cost(outs []float64, label int) float64 {
	var sum float64
	for i, o := range outs {
		t := oneHot(i, label)
		sum += 0.5 * math.Pow(o-t, 2)
	}

	sum /= float64(len(outs))

	if bool(*m) {
		fmt.Println(label, outs)
	}

	return sum
}

func (m *mse) Derivs(outs []float64, label int) []float64 {
	n := float64(len(outs))
	ds := make([]float64, len(outs))
	for i, o := range outs {
		ds[i] = (o - oneHot(i, label)) / n
	}

	return ds
}

func oneHot(i, label int) float64 {
	if i == label {
		return 1
	}

	return 0
}
