// Package ops defines the operation registry for scalar automatic differentiation.
//
// Every node in a computation graph carries a Kind. The Kind selects a Rule,
// which provides:
//   - Forward: the value of the node computed from its operands
//   - Backward: the local-gradient contributions flowing to each operand
//
// Rules never touch gradients directly. Backward returns contributions and the
// scheduler adds them into operand gradients, so a rule cannot overwrite a
// gradient accumulated from another parent.
//
// Supported operations:
//   - Add: a + b (d/da = 1, d/db = 1)
//   - Mul: a * b (d/da = b, d/db = a)
//   - Div: a / b (d/da = 1/b, d/db = -a/b²)
//   - Pow: a^k for a constant real k (d/da = k*a^(k-1))
//   - Exp: e^a (d/da = e^a)
//   - Tanh: tanh(a) (d/da = 1 - tanh²(a))
//
// Subtraction and negation are composites built from Add and Mul by the graph
// and have no Kind of their own.
package ops

import (
	"fmt"
	"strconv"
)

// Kind identifies the operation that produced a node.
type Kind uint8

// Operation kinds. None marks a leaf.
const (
	None Kind = iota
	Add
	Mul
	Div
	Pow
	Exp
	Tanh

	numKinds
)

// Args are the operand values a rule is evaluated with.
type Args struct {
	A     float64 // first operand data
	B     float64 // second operand data, unused by unary rules
	Param float64 // constant parameter (the exponent of Pow)
}

// Rule is the forward formula and local-gradient rule of one Kind.
type Rule struct {
	// Tag is the display name of the operation ("" for leaves).
	Tag string

	// Arity is the number of operand nodes.
	Arity int

	// Forward computes the node value from its operands.
	Forward func(x Args) float64

	// Backward returns the contributions to the operand gradients given the
	// node's own value and its fully accumulated gradient.
	// Unused slots of unary rules are zero.
	Backward func(x Args, out, grad float64) (da, db float64)
}

var registry = [numKinds]Rule{
	None: leafRule,
	Add:  addRule,
	Mul:  mulRule,
	Div:  divRule,
	Pow:  powRule,
	Exp:  expRule,
	Tanh: tanhRule,
}

// leafRule has no forward formula; leaves are assigned their value directly.
var leafRule = Rule{
	Tag:   "",
	Arity: 0,
	Forward: func(Args) float64 {
		panic("ops: leaf has no forward formula")
	},
	Backward: func(Args, float64, float64) (float64, float64) {
		return 0, 0
	},
}

// Lookup returns the rule registered for k.
// It panics if k is not a known Kind.
func Lookup(k Kind) Rule {
	if k >= numKinds {
		panic(fmt.Sprintf("ops: unknown kind %d", k))
	}
	return registry[k]
}

// Valid reports whether k is a registered Kind.
func (k Kind) Valid() bool {
	return k < numKinds
}

// String returns the operation tag.
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return registry[k].Tag
}

// Arity returns the number of operands k takes.
func Arity(k Kind) int {
	return Lookup(k).Arity
}

// Forward evaluates the forward formula of k.
func Forward(k Kind, x Args) float64 {
	return Lookup(k).Forward(x)
}

// Backward evaluates the local-gradient rule of k.
// For a leaf it returns zero contributions.
func Backward(k Kind, x Args, out, grad float64) (da, db float64) {
	return Lookup(k).Backward(x, out, grad)
}

// Tag renders the display tag of a node, including the exponent for Pow.
func Tag(k Kind, param float64) string {
	if k == Pow {
		return k.String() + strconv.FormatFloat(param, 'g', -1, 64)
	}
	return k.String()
}
