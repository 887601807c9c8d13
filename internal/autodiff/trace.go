package autodiff

// Edge connects an operand (Child) to the node it feeds (Parent).
type Edge struct {
	Child  ID
	Parent ID
}

// Trace is the subgraph reachable from a root.
type Trace struct {
	Nodes []ID   // unique nodes in first-discovery order, root first
	Edges []Edge // one edge per operand slot of every node in Nodes
}

// Trace walks the graph depth-first from root and returns every reachable
// node and edge. A node reached again is not re-traversed, but each edge into
// it is still recorded; a node using the same operand twice (a*a) contributes
// two edges. Trace never mutates the graph.
func (g *Graph) Trace(root ID) Trace {
	g.node(root)

	var tr Trace
	seen := make([]bool, len(g.nodes))

	type frame struct {
		id   ID
		next int // next operand slot to follow
	}
	var stack []frame

	visit := func(id ID) {
		if seen[id] {
			return
		}
		seen[id] = true
		tr.Nodes = append(tr.Nodes, id)
		stack = append(stack, frame{id: id})
	}

	visit(root)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := g.nodes[top.id].children
		if top.next == len(children) {
			stack = stack[:len(stack)-1]
			continue
		}
		parent, child := top.id, children[top.next]
		top.next++

		tr.Edges = append(tr.Edges, Edge{Child: child, Parent: parent})
		visit(child)
	}

	return tr
}
