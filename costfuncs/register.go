package costfuncs

import (
	bs "github.com/sharnoff/classroom"
)

func init() {
	list := map[string]func() bs.CostFunction{
		MSE().TypeString():          func() bs.CostFunction { return MSE() },
		Abs().TypeString():          func() bs.CostFunction { return Abs() },
		Huber(1).TypeString():       func() bs.CostFunction { return Huber(1) },
		CrossEntropy().TypeString(): func() bs.CostFunction { return CrossEntropy() },
	}

	for s, f := range list {
		err := bs.RegisterCostFunction(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
