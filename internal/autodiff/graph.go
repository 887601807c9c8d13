// Package autodiff implements scalar reverse-mode automatic differentiation.
//
// A Graph is an arena of scalar nodes addressed by stable integer handles (ID).
// Each node holds a forward value, an accumulated gradient, the operation that
// produced it and the handles of its operands.
//
// Architecture:
//   - Arena: nodes live in creation order; an operation can only reference
//     nodes that already exist, so the graph is acyclic by construction
//   - Registry: the ops package maps each operation Kind to its forward
//     formula and local-gradient rule
//   - Tracer: Trace walks the nodes and edges reachable from a root
//   - Scheduler: Backward runs every rule once in reverse topological order,
//     accumulating contributions into operand gradients
//
// Usage:
//
//	g := autodiff.NewGraph()
//	a := g.Leaf(2.0, "a")
//	b := g.Leaf(-3.0, "b")
//	c := g.Leaf(10.0, "c")
//	e := a.Mul(b).Add(c) // e = a*b + c
//
//	e.SetGrad(1.0)
//	g.Backward(e.ID())
//	fmt.Println(a.Grad()) // de/da = b = -3
//
// A Graph is not safe for concurrent use.
package autodiff

import (
	"github.com/born-ml/micrograd/internal/autodiff/ops"
)

// ID is the stable handle of a node within its Graph.
type ID int

// NoID is the handle that refers to no node.
const NoID ID = -1

// node is one arena slot. data, op, param and children are frozen at
// construction; grad and label are mutable.
type node struct {
	data     float64
	grad     float64
	param    float64
	op       ops.Kind
	children []ID
	label    string
}

// Graph owns every node of a computation graph.
// Nodes are retained until the Graph itself becomes unreachable.
type Graph struct {
	nodes []node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Leaf creates an input node with no operation and no operands.
func (g *Graph) Leaf(value float64, label string) Value {
	g.nodes = append(g.nodes, node{data: value, op: ops.None, label: label})
	return Value{g: g, id: ID(len(g.nodes) - 1)}
}

// Apply creates the node produced by applying op to the given operands.
// param is the constant parameter of the operation (the exponent of Pow) and
// is ignored by other operations.
//
// Operands must already exist in g and their count must match the arity of
// op; otherwise Apply panics with an *InvariantViolation.
func (g *Graph) Apply(op ops.Kind, param float64, operands ...ID) Value {
	if !op.Valid() || op == ops.None {
		violate(ViolationArity, NoID, "cannot apply operation kind %d", int(op))
	}
	if arity := ops.Arity(op); len(operands) != arity {
		violate(ViolationArity, NoID, "%s takes %d operands, got %d", op, arity, len(operands))
	}

	children := make([]ID, len(operands))
	for i, id := range operands {
		g.node(id) // bounds check
		children[i] = id
	}

	out := ops.Forward(op, g.args(children, param))
	g.nodes = append(g.nodes, node{
		data:     out,
		param:    param,
		op:       op,
		children: children,
	})
	return Value{g: g, id: ID(len(g.nodes) - 1)}
}

// Value returns the handle of id bound to g.
func (g *Graph) Value(id ID) Value {
	g.node(id)
	return Value{g: g, id: id}
}

// Data returns the forward value of a node.
func (g *Graph) Data(id ID) float64 {
	return g.node(id).data
}

// Grad returns the accumulated gradient of a node.
func (g *Graph) Grad(id ID) float64 {
	return g.node(id).grad
}

// SetGrad sets the gradient of a node. It is used to seed the root before
// Backward.
func (g *Graph) SetGrad(id ID, grad float64) {
	g.node(id).grad = grad
}

// Label returns the display label of a node.
func (g *Graph) Label(id ID) string {
	return g.node(id).label
}

// SetLabel sets the display label of a node. Labels have no effect on
// computation.
func (g *Graph) SetLabel(id ID, label string) {
	g.node(id).label = label
}

// Kind returns the operation that produced a node (ops.None for leaves).
func (g *Graph) Kind(id ID) ops.Kind {
	return g.node(id).op
}

// Op returns the display tag of the operation that produced a node,
// or "" for leaves.
func (g *Graph) Op(id ID) string {
	n := g.node(id)
	return ops.Tag(n.op, n.param)
}

// Param returns the constant parameter stored with a node's operation.
func (g *Graph) Param(id ID) float64 {
	return g.node(id).param
}

// Children returns a copy of the operand handles of a node, in operand order.
func (g *Graph) Children(id ID) []ID {
	n := g.node(id)
	if len(n.children) == 0 {
		return nil
	}
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

// ZeroGrad resets the gradient of every node to zero so the graph can be
// differentiated again.
func (g *Graph) ZeroGrad() {
	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

// node returns the arena slot for id, panicking if id is not in g.
func (g *Graph) node(id ID) *node {
	if id < 0 || int(id) >= len(g.nodes) {
		violate(ViolationUnknownNode, id, "graph has %d nodes", len(g.nodes))
	}
	return &g.nodes[id]
}

// args gathers the operand values a rule is evaluated with.
func (g *Graph) args(children []ID, param float64) ops.Args {
	x := ops.Args{Param: param}
	if len(children) > 0 {
		x.A = g.nodes[children[0]].data
	}
	if len(children) > 1 {
		x.B = g.nodes[children[1]].data
	}
	return x
}
