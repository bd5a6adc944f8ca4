package costfuncs

import (
	"fmt"
	"math"
)

type huber struct {
	δ     float64
	print bool
}

// Huber returns the Huber loss against the one-hot encoding of the label,
// which implements classroom.CostFunction. δ controls the bounds of the
// transition between MSE and Absolute Value.
func Huber(δ float64) *huber {
	h := huber{δ: δ}
	return &h
}

func (h *huber) TypeString() string {
	return "huber"
}

func (h *huber) PrintOuts() *huber {
	h.print = true
	return h
}

func (h *huber) NoPrint() *huber {
	h.print = false
	return h
}

func (h *huber) Cost(outs []float64, label int) float64 {
	var sum float64
	for i, o := range outs {
		d := math.Abs(o - oneHot(i, label))
		if d <= h.δ {
			sum += 0.5 * d * d // faster than math.Pow
		} else {
			sum += h.δ*d - 0.5*h.δ*h.δ // faster than math.Pow
		}
	}

	sum /= float64(len(outs))

	if h.print {
		fmt.Println(label, outs)
	}

	return sum
}

func (h *huber) Derivs(outs []float64, label int) []float64 {
	n := float64(len(outs))
	ds := make([]float64, len(outs))
	for i, o := range outs {
		d := o - oneHot(i, label)
		if !(d < -h.δ || d > h.δ) { // d >= -h.δ && d <= h.δ
			ds[i] = d / n
		} else {
			ds[i] = h.δ * math.Copysign(1, d) / n
		}
	}

	return ds
}
