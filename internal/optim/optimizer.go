// Package optim implements gradient-descent optimizers for scalar parameters.
//
// Node data in a graph is immutable, so parameters live outside the graph as
// a []float64. Each training step binds them as leaves of a fresh graph, runs
// the backward pass, collects their gradients and lets an Optimizer update the
// slice in place:
//
//	params := []float64{-3.0, 1.0, 6.88}
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//
//	for step := range steps {
//	    g := autodiff.NewGraph()
//	    leaves := optim.Bind(g, params, "w1", "w2", "b")
//	    loss := buildLoss(g, leaves)
//	    loss.Backward()
//	    opt.Step(params, optim.Gradients(leaves))
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to params given their gradients.
	// params and grads must have the same length; per-parameter state is
	// keyed by index, so the order must not change between steps.
	Step(params, grads []float64)

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Bind creates one leaf per parameter in g. labels are optional; missing
// labels default to "p{index}".
func Bind(g *autodiff.Graph, params []float64, labels ...string) []autodiff.Value {
	leaves := make([]autodiff.Value, len(params))
	for i, p := range params {
		label := fmt.Sprintf("p%d", i)
		if i < len(labels) {
			label = labels[i]
		}
		leaves[i] = g.Leaf(p, label)
	}
	return leaves
}

// Gradients returns the accumulated gradient of each value.
func Gradients(values []autodiff.Value) []float64 {
	grads := make([]float64, len(values))
	for i, v := range values {
		grads[i] = v.Grad()
	}
	return grads
}

func checkLengths(params, grads []float64) {
	if len(params) != len(grads) {
		panic(fmt.Sprintf("optim: %d params but %d grads", len(params), len(grads)))
	}
}
