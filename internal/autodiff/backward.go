package autodiff

import (
	"github.com/born-ml/micrograd/internal/autodiff/ops"
	"github.com/born-ml/micrograd/internal/parallel"
)

// DFS colors for TopoOrder.
const (
	white uint8 = iota // not yet reached
	grey               // on the current DFS path
	black              // finished, appended to the order
)

// TopoOrder returns the nodes reachable from root such that every node appears
// strictly after all of its operands. root is always last.
//
// Reaching a node that is still on the DFS path means the graph has a cycle,
// which the construction API cannot produce; TopoOrder panics with an
// *InvariantViolation in that case.
func (g *Graph) TopoOrder(root ID) []ID {
	g.node(root)

	color := make([]uint8, len(g.nodes))
	order := make([]ID, 0, len(g.nodes))

	type frame struct {
		id   ID
		next int
	}
	stack := []frame{{id: root}}
	color[root] = grey

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := g.nodes[top.id].children
		if top.next == len(children) {
			color[top.id] = black
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		child := children[top.next]
		top.next++

		switch color[child] {
		case grey:
			violate(ViolationCycle, child, "node %d is reachable from itself", child)
		case white:
			color[child] = grey
			stack = append(stack, frame{id: child})
		}
	}

	return order
}

// Backward propagates gradients from root to every node it depends on.
//
// The caller seeds root's gradient first (conventionally 1.0); Backward does
// not seed it. Each node's rule runs exactly once, in reverse topological
// order, so a node's gradient is complete before it is propagated further.
// Contributions are accumulated: a node consumed by several parents receives
// the sum of their contributions.
func (g *Graph) Backward(root ID) {
	g.runRules(g.TopoOrder(root))
}

// runRules invokes the rule of every node in reverse order.
func (g *Graph) runRules(order []ID) {
	pending := g.pendingParents(order)

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		g.checkReady(id, pending)
		da, db := g.localGrads(id)
		g.accumulate(id, da, db, pending)
	}
}

// BackwardParallel is Backward with the rules of independent nodes evaluated
// concurrently.
//
// Nodes are grouped by rank, their longest distance from root. All parents of
// a node have a smaller rank, so ranks are processed one after another: the
// rules of one rank are evaluated in parallel, then their contributions are
// accumulated serially in a fixed order before the next rank starts. Results
// are deterministic for a given graph but may differ from Backward in the last
// bits, since contributions are summed in a different order.
func (g *Graph) BackwardParallel(root ID, cfg parallel.Config) {
	order := g.TopoOrder(root)
	pending := g.pendingParents(order)

	type contribution struct {
		da, db float64
	}

	for _, level := range g.ranks(order) {
		for _, id := range level {
			g.checkReady(id, pending)
		}

		contribs := make([]contribution, len(level))
		parallel.For(len(level), func(i int) {
			contribs[i].da, contribs[i].db = g.localGrads(level[i])
		}, cfg)

		for i, id := range level {
			g.accumulate(id, contribs[i].da, contribs[i].db, pending)
		}
	}
}

// ranks groups order by longest distance from its root (the last element).
// Within a rank, nodes keep their reverse topological order.
func (g *Graph) ranks(order []ID) [][]ID {
	if len(order) == 0 {
		return nil
	}

	rank := make(map[ID]int, len(order))
	maxRank := 0
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		r := rank[id]
		for _, c := range g.nodes[id].children {
			if rank[c] < r+1 {
				rank[c] = r + 1
			}
		}
		maxRank = max(maxRank, r)
	}

	levels := make([][]ID, maxRank+1)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		levels[rank[id]] = append(levels[rank[id]], id)
	}
	return levels
}

// pendingParents counts, for every node in order, the operand slots of other
// nodes in order that refer to it.
func (g *Graph) pendingParents(order []ID) map[ID]int {
	pending := make(map[ID]int, len(order))
	for _, id := range order {
		for _, c := range g.nodes[id].children {
			pending[c]++
		}
	}
	return pending
}

// checkReady panics if a parent of id has not yet propagated into it.
func (g *Graph) checkReady(id ID, pending map[ID]int) {
	if n := pending[id]; n != 0 {
		violate(ViolationPrematureRule, id, "backward rule invoked with %d parent contributions outstanding", n)
	}
}

// localGrads evaluates the rule of id against its accumulated gradient.
func (g *Graph) localGrads(id ID) (da, db float64) {
	n := &g.nodes[id]
	if n.op == ops.None {
		return 0, 0
	}
	return ops.Backward(n.op, g.args(n.children, n.param), n.data, n.grad)
}

// accumulate adds the contributions of id into its operands' gradients.
func (g *Graph) accumulate(id ID, da, db float64, pending map[ID]int) {
	children := g.nodes[id].children
	if len(children) > 0 {
		g.nodes[children[0]].grad += da
		pending[children[0]]--
	}
	if len(children) > 1 {
		g.nodes[children[1]].grad += db
		pending[children[1]]--
	}
}
