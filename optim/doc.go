// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers for scalar parameters.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
// Graph data never changes after construction, so trainable parameters are
// kept in a plain []float64 and bound to a fresh graph on every step:
//
//	import (
//	    "github.com/born-ml/micrograd/autodiff"
//	    "github.com/born-ml/micrograd/optim"
//	)
//
//	func main() {
//	    params := []float64{0.5, -0.5}
//	    optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//
//	    for step := range 100 {
//	        g := autodiff.NewGraph()
//	        w := optim.Bind(g, params, "w", "b")
//	        loss := w[0].MulScalar(3).Add(w[1]).AddScalar(-1).Pow(2)
//
//	        loss.Backward()
//	        optimizer.Step(params, optim.Gradients(w))
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
package optim
