package costfuncs

import (
	"fmt"
	"math"
)

type crossEntropy bool

// CrossEntropy returns the softmax cross-entropy cost function, which
// implements classroom.CostFunction. The Model's outputs are taken as raw
// scores; the softmax is applied here, in a numerically stable form.
func CrossEntropy() *crossEntropy {
	c := crossEntropy(false)
	return &c
}

// NegativeLog is a proxy for CrossEntropy
func NegativeLog() *crossEntropy {
	return CrossEntropy()
}

func (c *crossEntropy) TypeString() string {
	return "cross-entropy"
}

func (c *crossEntropy) PrintOuts() *crossEntropy {
	*c = crossEntropy(true)
	return c
}

func (c *crossEntropy) NoPrint() *crossEntropy {
	*c = crossEntropy(false)
	return c
}

func (c *crossEntropy) Cost(outs []float64, label int) float64 {
	// log(Σ exp(outs)) - outs[label], with the max factored out so that large
	// scores don't overflow
	max := outs[0]
	for _, o := range outs[1:] {
		if o > max {
			max = o
		}
	}

	var sum float64
	for _, o := range outs {
		sum += math.Exp(o - max)
	}

	if bool(*c) {
		fmt.Println(label, outs)
	}

	return max + math.Log(sum) - outs[label]
}

func (c *crossEntropy) Derivs(outs []float64, label int) []float64 {
	max := outs[0]
	for _, o := range outs[1:] {
		if o > max {
			max = o
		}
	}

	var sum float64
	ds := make([]float64, len(outs))
	for i, o := range outs {
		ds[i] = math.Exp(o - max)
		sum += ds[i]
	}

	// softmax minus the one-hot target
	for i := range ds {
		ds[i] /= sum
	}
	ds[label] -= 1

	return ds
}
