package optimizers

import (
	bs "github.com/sharnoff/classroom"
)

func init() {
	list := map[string]func() bs.Optimizer{
		"sgd":  func() bs.Optimizer { return SGD(0.01) },
		"adam": func() bs.Optimizer { return Adam(0.001) },
	}

	for s, f := range list {
		err := bs.RegisterOptimizer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}

	bs.SetDefaultOptimizer(func() bs.Optimizer { return SGD(0.01) })
}
