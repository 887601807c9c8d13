// Package graphfile builds computation graphs from HCL graph files.
//
// A graph file declares input leaves and derived nodes:
//
//	leaf "x1" { value = 2.0 }
//	leaf "w1" { value = -3.0 }
//	leaf "b"  { value = 6.8813735870195432 }
//
//	node "n" { expr = x1*w1 + b }
//	node "o" { expr = tanh(n) }
//
//	output = "o"
//
// Leaves are created first, in file order; nodes follow in file order. A node
// expression may refer to any leaf and to nodes declared above it, so every
// file describes an acyclic graph.
//
// Expressions use HCL native syntax restricted to arithmetic: the binary
// operators + - * /, unary minus, parentheses, number literals, names, and
// the functions exp(x), tanh(x) and pow(x, k). The exponent of pow must be a
// constant; an exponent that refers to a name is rejected with
// autodiff.ErrInvalidOperand.
//
// The output attribute names the root; when absent the last node (or the last
// leaf, if there are no nodes) is used.
package graphfile
