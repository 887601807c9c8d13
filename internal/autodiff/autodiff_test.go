package autodiff_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/born-ml/micrograd/internal/autodiff/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLeaf tests leaf construction.
func TestLeaf(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2.0, "a")

	assert.Equal(t, 2.0, a.Data())
	assert.Zero(t, a.Grad())
	assert.Equal(t, "a", a.Label())
	assert.Equal(t, "", a.Op())
	assert.Equal(t, ops.None, g.Kind(a.ID()))
	assert.Nil(t, a.Children())
	assert.Equal(t, 1, g.Len())
}

// TestFreshNodesHaveZeroGrad checks every constructed node starts at grad 0.
func TestFreshNodesHaveZeroGrad(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1.5, "a")
	b := g.Leaf(-0.5, "b")

	built := []autodiff.Value{
		a.Add(b), a.Mul(b), a.Sub(b), a.Div(b), a.Neg(),
		a.Pow(3), a.Exp(), a.Tanh(), a.AddScalar(2), a.MulScalar(2),
	}
	for _, v := range built {
		assert.Zero(t, v.Grad(), "node %d (%s)", v.ID(), v.Op())
	}
	for id := autodiff.ID(0); int(id) < g.Len(); id++ {
		assert.Zero(t, g.Grad(id), "node %d", id)
	}
}

// TestOperations_Forward tests forward values and recorded structure.
func TestOperations_Forward(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3.0, "a")
	b := g.Leaf(4.0, "b")

	tests := []struct {
		name     string
		v        autodiff.Value
		want     float64
		op       string
		children []autodiff.ID
	}{
		{"add", a.Add(b), 7, "+", []autodiff.ID{a.ID(), b.ID()}},
		{"mul", a.Mul(b), 12, "*", []autodiff.ID{a.ID(), b.ID()}},
		{"div", a.Div(b), 0.75, "/", []autodiff.ID{a.ID(), b.ID()}},
		{"pow", a.Pow(2), 9, "**2", []autodiff.ID{a.ID()}},
		{"exp", a.Exp(), math.Exp(3), "exp", []autodiff.ID{a.ID()}},
		{"tanh", a.Tanh(), math.Tanh(3), "tanh", []autodiff.ID{a.ID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.v.Data(), 1e-12)
			assert.Equal(t, tt.op, tt.v.Op())
			assert.Equal(t, tt.children, g.Children(tt.v.ID()))
		})
	}
}

// TestNeg_IsMulByMinusOne tests the composite structure of Neg and Sub.
func TestNeg_IsMulByMinusOne(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(3.0, "a")
	b := g.Leaf(5.0, "b")

	n := a.Neg()
	assert.Equal(t, -3.0, n.Data())
	assert.Equal(t, "*", n.Op())
	children := n.Children()
	require.Len(t, children, 2)
	assert.Equal(t, a.ID(), children[0].ID())
	assert.Equal(t, -1.0, children[1].Data())

	s := a.Sub(b)
	assert.Equal(t, -2.0, s.Data())
	assert.Equal(t, "+", s.Op())
	require.Len(t, s.Children(), 2)
	assert.Equal(t, "*", s.Children()[1].Op())
}

// TestOperations_DoNotMutateOperands tests that building nodes leaves operands untouched.
func TestOperations_DoNotMutateOperands(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2.0, "a")
	b := g.Leaf(-3.0, "b")

	_ = a.Mul(b).Add(a).Tanh().Pow(2)

	assert.Equal(t, 2.0, a.Data())
	assert.Equal(t, -3.0, b.Data())
	assert.Zero(t, a.Grad())
	assert.Zero(t, b.Grad())
	assert.Nil(t, a.Children())
}

// TestIdentityNotValue tests that equal values built separately are distinct nodes.
func TestIdentityNotValue(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1.0, "a")
	b := g.Leaf(1.0, "b")

	x := a.Add(b)
	y := a.Add(b)
	assert.NotEqual(t, x.ID(), y.ID())
	assert.Equal(t, x.Data(), y.Data())

	tr := g.Trace(x.ID())
	assert.Len(t, tr.Nodes, 3)
}

// TestChildren_ReturnsCopy tests that read views cannot corrupt the graph.
func TestChildren_ReturnsCopy(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1.0, "a")
	b := g.Leaf(2.0, "b")
	c := a.Add(b)

	children := g.Children(c.ID())
	children[0] = b.ID()

	assert.Equal(t, []autodiff.ID{a.ID(), b.ID()}, g.Children(c.ID()))
}

// TestLabels tests label mutation.
func TestLabels(t *testing.T) {
	g := autodiff.NewGraph()
	d := g.Leaf(2.0, "").Mul(g.Leaf(-3.0, ""))
	assert.Equal(t, "", d.Label())

	assert.Equal(t, d, d.SetLabel("d"))
	assert.Equal(t, "d", d.Label())
	assert.Equal(t, -6.0, d.Data())
}

// TestPowOperand tests constant and node-valued exponents.
func TestPowOperand(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2.0, "a")

	constants := []any{3, int8(3), int64(3), uint(3), uint16(3), float32(3), 3.0}
	for _, k := range constants {
		v, err := a.PowOperand(k)
		require.NoError(t, err, "%T", k)
		assert.Equal(t, 8.0, v.Data(), "%T", k)
	}

	exponent := g.Leaf(3.0, "k")
	before := g.Len()

	_, err := a.PowOperand(exponent)
	assert.True(t, errors.Is(err, autodiff.ErrInvalidOperand))

	_, err = a.PowOperand(exponent.ID())
	assert.ErrorIs(t, err, autodiff.ErrInvalidOperand)

	_, err = a.PowOperand("3")
	assert.ErrorIs(t, err, autodiff.ErrInvalidOperand)

	_, err = a.PowOperand(nil)
	assert.ErrorIs(t, err, autodiff.ErrInvalidOperand)

	assert.Equal(t, before, g.Len(), "failed pow must not allocate nodes")
}

// TestDiv_ByZero tests that division by zero is not an engine error.
func TestDiv_ByZero(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1.0, "a")
	z := g.Leaf(0.0, "z")

	q := a.Div(z)
	assert.True(t, math.IsInf(q.Data(), 1))
	assert.False(t, q.IsFinite())

	q.Backward()
	assert.True(t, math.IsInf(a.Grad(), 1))
	assert.True(t, math.IsInf(z.Grad(), -1))
}

// TestForeignValue tests that mixing graphs panics.
func TestForeignValue(t *testing.T) {
	a := autodiff.NewGraph().Leaf(1.0, "a")
	b := autodiff.NewGraph().Leaf(2.0, "b")

	var violation *autodiff.InvariantViolation
	func() {
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			require.ErrorAs(t, err, &violation)
		}()
		a.Add(b)
	}()
	assert.Equal(t, autodiff.ViolationForeignValue, violation.Kind)
}

// TestUnknownNode tests out-of-range handles.
func TestUnknownNode(t *testing.T) {
	g := autodiff.NewGraph()
	g.Leaf(1.0, "a")

	assert.Panics(t, func() { g.Data(5) })
	assert.Panics(t, func() { g.Value(autodiff.NoID) })
	assert.Panics(t, func() { autodiff.Value{}.Data() })
}

// TestApply_ArityMismatch tests the arity check of the generic constructor.
func TestApply_ArityMismatch(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(1.0, "a")

	assert.Panics(t, func() { g.Apply(ops.Add, 0, a.ID()) })
	assert.Panics(t, func() { g.Apply(ops.Tanh, 0, a.ID(), a.ID()) })
	assert.Panics(t, func() { g.Apply(ops.None, 0) })

	v := g.Apply(ops.Pow, 3, a.ID())
	assert.Equal(t, 1.0, v.Data())
	assert.Equal(t, 3.0, g.Param(v.ID()))
}

// TestValue_String tests the Stringer output.
func TestValue_String(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2.5, "a")
	a.SetGrad(-1)

	assert.Equal(t, "Value(data=2.5, grad=-1)", a.String())
	assert.Equal(t, "Value(<nil>)", autodiff.Value{}.String())
}

// TestInvariantViolation_Error tests the error message format.
func TestInvariantViolation_Error(t *testing.T) {
	err := &autodiff.InvariantViolation{Kind: autodiff.ViolationCycle, Node: 3, Details: "loop"}
	assert.Equal(t, "autodiff: invariant violation: cycle: node 3: loop", err.Error())

	err = &autodiff.InvariantViolation{Kind: autodiff.ViolationForeignValue, Node: autodiff.NoID, Details: "x"}
	assert.Equal(t, "autodiff: invariant violation: foreign_value: x", err.Error())
}
