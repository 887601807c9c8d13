package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// NodeReport is the read-only view of one traced node.
type NodeReport struct {
	ID       int     `json:"id"`
	Label    string  `json:"label"`
	Op       string  `json:"op"`
	Data     float64 `json:"data"`
	Grad     float64 `json:"grad"`
	Children []int   `json:"children"`
}

// EdgeReport connects an operand to the node it feeds.
type EdgeReport struct {
	Child  int `json:"child"`
	Parent int `json:"parent"`
}

// Report is the traced subgraph of a root.
type Report struct {
	Root  int          `json:"root"`
	Nodes []NodeReport `json:"nodes"`
	Edges []EdgeReport `json:"edges"`
}

// NewReport traces g from root and captures every reachable node.
func NewReport(g *autodiff.Graph, root autodiff.ID) Report {
	tr := g.Trace(root)

	r := Report{
		Root:  int(root),
		Nodes: make([]NodeReport, 0, len(tr.Nodes)),
		Edges: make([]EdgeReport, 0, len(tr.Edges)),
	}
	for _, id := range tr.Nodes {
		children := []int{}
		for _, c := range g.Children(id) {
			children = append(children, int(c))
		}
		r.Nodes = append(r.Nodes, NodeReport{
			ID:       int(id),
			Label:    g.Label(id),
			Op:       g.Op(id),
			Data:     g.Data(id),
			Grad:     g.Grad(id),
			Children: children,
		})
	}
	for _, e := range tr.Edges {
		r.Edges = append(r.Edges, EdgeReport{Child: int(e.Child), Parent: int(e.Parent)})
	}
	return r
}

// Write renders r in the given format ("text" or "json").
func (r Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.writeJSON(w)
	case "text":
		return r.writeText(w)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// writeJSON encodes non-finite floats as strings, which JSON numbers cannot hold.
func (r Report) writeJSON(w io.Writer) error {
	type jsonNode struct {
		NodeReport
		Data any `json:"data"`
		Grad any `json:"grad"`
	}
	out := struct {
		Root  int          `json:"root"`
		Nodes []jsonNode   `json:"nodes"`
		Edges []EdgeReport `json:"edges"`
	}{Root: r.Root, Edges: r.Edges, Nodes: make([]jsonNode, len(r.Nodes))}

	for i, n := range r.Nodes {
		out.Nodes[i] = jsonNode{NodeReport: n, Data: jsonFloat(n.Data), Grad: jsonFloat(n.Grad)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (r Report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tOP\tDATA\tGRAD\tCHILDREN")
	for _, n := range r.Nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.4f\t%v\n", n.ID, n.Label, n.Op, n.Data, n.Grad, n.Children)
	}
	return tw.Flush()
}

func jsonFloat(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}
