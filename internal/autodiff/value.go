package autodiff

import (
	"fmt"
	"math"
	"reflect"

	"github.com/born-ml/micrograd/internal/autodiff/ops"
)

// Value is a node handle bound to its Graph. It is a small value type; copies
// refer to the same node.
//
// Operations on Values never mutate their operands: each returns a new node.
// Both operands of a binary operation must belong to the same Graph.
type Value struct {
	g  *Graph
	id ID
}

// ID returns the node handle.
func (v Value) ID() ID {
	return v.id
}

// Graph returns the graph that owns the node.
func (v Value) Graph() *Graph {
	return v.g
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.graph().Data(v.id)
}

// Grad returns the accumulated gradient.
func (v Value) Grad() float64 {
	return v.graph().Grad(v.id)
}

// SetGrad sets the gradient, typically to seed the root of a backward pass.
func (v Value) SetGrad(grad float64) {
	v.graph().SetGrad(v.id, grad)
}

// Label returns the display label.
func (v Value) Label() string {
	return v.graph().Label(v.id)
}

// SetLabel sets the display label and returns v for chaining.
func (v Value) SetLabel(label string) Value {
	v.graph().SetLabel(v.id, label)
	return v
}

// Op returns the display tag of the producing operation ("" for leaves).
func (v Value) Op() string {
	return v.graph().Op(v.id)
}

// Children returns the operands of v, in operand order.
func (v Value) Children() []Value {
	ids := v.graph().Children(v.id)
	if ids == nil {
		return nil
	}
	out := make([]Value, len(ids))
	for i, id := range ids {
		out[i] = Value{g: v.g, id: id}
	}
	return out
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.g == nil {
		return "Value(<nil>)"
	}
	return fmt.Sprintf("Value(data=%g, grad=%g)", v.Data(), v.Grad())
}

// Add returns v + w.
func (v Value) Add(w Value) Value {
	return v.binary(ops.Add, w)
}

// Mul returns v * w.
func (v Value) Mul(w Value) Value {
	return v.binary(ops.Mul, w)
}

// Div returns v / w. A zero divisor yields ±Inf or NaN, not an error.
func (v Value) Div(w Value) Value {
	return v.binary(ops.Div, w)
}

// Neg returns -v, built as v * (-1).
func (v Value) Neg() Value {
	return v.Mul(v.graph().Leaf(-1, ""))
}

// Sub returns v - w, built as v + (-w).
func (v Value) Sub(w Value) Value {
	return v.Add(w.Neg())
}

// AddScalar returns v + c with c as a fresh constant leaf.
func (v Value) AddScalar(c float64) Value {
	return v.Add(v.graph().Leaf(c, ""))
}

// MulScalar returns v * c with c as a fresh constant leaf.
func (v Value) MulScalar(c float64) Value {
	return v.Mul(v.graph().Leaf(c, ""))
}

// Pow returns v raised to the constant power k.
func (v Value) Pow(k float64) Value {
	return v.graph().Apply(ops.Pow, k, v.id)
}

// PowOperand returns v raised to exponent, which must be a constant real
// (any Go integer or float type). Node-valued exponents (a Value or an ID) are
// not supported and yield ErrInvalidOperand, as does any other type.
func (v Value) PowOperand(exponent any) (Value, error) {
	switch e := exponent.(type) {
	case Value:
		return Value{}, fmt.Errorf("pow exponent must be a constant, got node %d: %w", e.id, ErrInvalidOperand)
	case ID:
		return Value{}, fmt.Errorf("pow exponent must be a constant, got node %d: %w", e, ErrInvalidOperand)
	}

	switch rv := reflect.ValueOf(exponent); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Pow(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Pow(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return v.Pow(rv.Float()), nil
	}
	return Value{}, fmt.Errorf("pow exponent must be a constant real, got %T: %w", exponent, ErrInvalidOperand)
}

// Exp returns e^v.
func (v Value) Exp() Value {
	return v.graph().Apply(ops.Exp, 0, v.id)
}

// Tanh returns the hyperbolic tangent of v.
func (v Value) Tanh() Value {
	return v.graph().Apply(ops.Tanh, 0, v.id)
}

// Backward seeds the gradient of v with 1 and runs the backward pass from v.
func (v Value) Backward() {
	g := v.graph()
	g.SetGrad(v.id, 1)
	g.Backward(v.id)
}

// IsFinite reports whether the forward value is neither infinite nor NaN.
func (v Value) IsFinite() bool {
	d := v.Data()
	return !math.IsInf(d, 0) && !math.IsNaN(d)
}

func (v Value) binary(op ops.Kind, w Value) Value {
	g := v.graph()
	if w.g != g {
		violate(ViolationForeignValue, w.id, "operands of %s belong to different graphs", op)
	}
	return g.Apply(op, 0, v.id, w.id)
}

func (v Value) graph() *Graph {
	if v.g == nil {
		violate(ViolationUnknownNode, NoID, "zero Value is not bound to a graph")
	}
	return v.g
}
