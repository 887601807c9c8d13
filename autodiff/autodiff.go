// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Nodes live in a Graph arena and are addressed by stable integer handles.
// Operations allocate new nodes and never modify their operands; Backward
// walks the graph in reverse topological order and accumulates gradients.
//
// Example:
//
//	import "github.com/born-ml/micrograd/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    x := g.Leaf(2.0, "x")
//	    y := x.Mul(x).Tanh() // y = tanh(x²)
//
//	    y.Backward()          // seeds dy/dy = 1
//	    fmt.Println(x.Grad()) // dy/dx = 2x(1 - y²)
//	}
package autodiff

import (
	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/parallel"
)

// Graph is an arena of scalar computation nodes.
type Graph = autodiff.Graph

// Value is a node handle bound to its Graph.
type Value = autodiff.Value

// ID is the stable handle of a node within its Graph.
type ID = autodiff.ID

// NoID is the handle that refers to no node.
const NoID = autodiff.NoID

// Edge connects an operand (Child) to the node it feeds (Parent).
type Edge = autodiff.Edge

// Trace is the subgraph reachable from a root.
type Trace = autodiff.Trace

// InvariantViolation reports a broken internal invariant. It is raised by panic.
type InvariantViolation = autodiff.InvariantViolation

// ErrInvalidOperand is returned when Pow receives a node-valued exponent.
var ErrInvalidOperand = autodiff.ErrInvalidOperand

// ParallelConfig controls BackwardParallel.
type ParallelConfig = parallel.Config

// NewGraph creates an empty graph.
//
// Example:
//
//	g := autodiff.NewGraph()
//	a := g.Leaf(2.0, "a")
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Workers returns a ParallelConfig using n goroutines.
func Workers(n int) ParallelConfig {
	return parallel.WithWorkers(n)
}
