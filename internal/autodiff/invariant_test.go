package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recoverViolation runs f and returns the *InvariantViolation it panics with.
func recoverViolation(t *testing.T, f func()) (v *InvariantViolation) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		var ok bool
		v, ok = r.(*InvariantViolation)
		require.True(t, ok, "panic value %T is not *InvariantViolation", r)
	}()
	f()
	return nil
}

func TestTopoOrder_DetectsCycle(t *testing.T) {
	g := NewGraph()
	a := g.Leaf(1, "a")
	b := g.Leaf(2, "b")
	c := a.Add(b)
	d := c.Tanh()

	// The construction API cannot create a back-edge, so forge one.
	g.nodes[a.ID()].op = g.nodes[d.ID()].op
	g.nodes[a.ID()].children = []ID{d.ID()}

	v := recoverViolation(t, func() { g.TopoOrder(d.ID()) })
	assert.Equal(t, ViolationCycle, v.Kind)

	v = recoverViolation(t, func() {
		d.SetGrad(1)
		g.Backward(d.ID())
	})
	assert.Equal(t, ViolationCycle, v.Kind)
}

func TestTopoOrder_SelfLoop(t *testing.T) {
	g := NewGraph()
	a := g.Leaf(1, "a")
	b := a.Exp()
	g.nodes[b.ID()].children = []ID{b.ID()}

	v := recoverViolation(t, func() { g.TopoOrder(b.ID()) })
	assert.Equal(t, ViolationCycle, v.Kind)
	assert.Equal(t, b.ID(), v.Node)
}

func TestRunRules_DetectsPrematureRule(t *testing.T) {
	g := NewGraph()
	a := g.Leaf(2, "a")
	b := g.Leaf(-3, "b")
	d := a.Mul(b)
	e := d.Add(a)

	good := g.TopoOrder(e.ID())
	require.Equal(t, e.ID(), good[len(good)-1])

	// Put d last so its rule runs before e has propagated into it.
	bad := []ID{a.ID(), b.ID(), e.ID(), d.ID()}

	e.SetGrad(1)
	v := recoverViolation(t, func() { g.runRules(bad) })
	assert.Equal(t, ViolationPrematureRule, v.Kind)
	assert.Equal(t, d.ID(), v.Node)
}

func TestRanks(t *testing.T) {
	g := NewGraph()
	a := g.Leaf(2, "a")
	b := g.Leaf(-3, "b")
	d := a.Mul(b)
	e := d.Add(a)

	levels := g.ranks(g.TopoOrder(e.ID()))

	// a feeds e directly and through d, so it ranks after d.
	assert.Equal(t, [][]ID{
		{e.ID()},
		{d.ID()},
		{b.ID(), a.ID()},
	}, levels)
	assert.Nil(t, g.ranks(nil))
}

func TestPendingParents(t *testing.T) {
	g := NewGraph()
	a := g.Leaf(3, "a")
	sq := a.Mul(a)
	out := sq.Add(a)

	pending := g.pendingParents(g.TopoOrder(out.ID()))

	assert.Equal(t, 3, pending[a.ID()])
	assert.Equal(t, 1, pending[sq.ID()])
	assert.Equal(t, 0, pending[out.ID()])
}
