package graphfile

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// hclGraphFile represents the top-level structure of a graph file for decoding.
type hclGraphFile struct {
	Leaves []*hclLeaf `hcl:"leaf,block"`
	Nodes  []*hclNode `hcl:"node,block"`
	Output *string    `hcl:"output,optional"`
}

type hclLeaf struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
	Label *string        `hcl:"label,optional"`
}

type hclNode struct {
	Name  string         `hcl:"name,label"`
	Expr  hcl.Expression `hcl:"expr"`
	Label *string        `hcl:"label,optional"`
}

// Program is a graph built from a graph file.
type Program struct {
	Graph  *autodiff.Graph
	Output autodiff.Value
	Names  []string // declared names: leaves then nodes, in file order

	scope map[string]autodiff.Value
}

// Lookup returns the node declared under name.
func (p *Program) Lookup(name string) (autodiff.Value, bool) {
	v, ok := p.scope[name]
	return v, ok
}

// Load parses the graph file at path and builds its graph.
func Load(path string) (*Program, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", path, diags)
	}
	return build(file, path)
}

// Parse parses graph file source and builds its graph. filename is used in
// diagnostics only.
func Parse(src []byte, filename string) (*Program, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", filename, diags)
	}
	return build(file, filename)
}

func build(file *hcl.File, filename string) (*Program, error) {
	var parsed hclGraphFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode graph file %s: %w", filename, diags)
	}

	p := &Program{
		Graph: autodiff.NewGraph(),
		scope: make(map[string]autodiff.Value, len(parsed.Leaves)+len(parsed.Nodes)),
	}

	for _, leaf := range parsed.Leaves {
		if err := p.declare(leaf.Name, leaf.Value.Range()); err != nil {
			return nil, err
		}
		value, err := constant(leaf.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid value of leaf %q: %w", leaf.Name, err)
		}
		label := leaf.Name
		if leaf.Label != nil {
			label = *leaf.Label
		}
		p.scope[leaf.Name] = p.Graph.Leaf(value, label)
	}

	c := &compiler{g: p.Graph, scope: p.scope}
	for _, n := range parsed.Nodes {
		if err := p.declare(n.Name, n.Expr.Range()); err != nil {
			return nil, err
		}
		syntaxExpr, ok := n.Expr.(hclsyntax.Expression)
		if !ok {
			return nil, diagError(n.Expr.Range(), "Unsupported expression syntax",
				"Node expressions must be written in HCL native syntax.")
		}
		v, err := c.compile(syntaxExpr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile node %q: %w", n.Name, err)
		}
		label := n.Name
		if n.Label != nil {
			label = *n.Label
		}
		// A bare reference aliases an existing node; keep its label.
		if _, isRef := syntaxExpr.(*hclsyntax.ScopeTraversalExpr); !isRef {
			v.SetLabel(label)
		}
		p.scope[n.Name] = v
	}

	output, err := p.resolveOutput(parsed.Output, filename)
	if err != nil {
		return nil, err
	}
	p.Output = output
	return p, nil
}

// declare records name, rejecting duplicates and invalid identifiers.
func (p *Program) declare(name string, rng hcl.Range) error {
	if !hclsyntax.ValidIdentifier(name) {
		return diagError(rng, "Invalid name",
			fmt.Sprintf("%q is not a valid identifier.", name))
	}
	if _, exists := p.scope[name]; exists {
		return diagError(rng, "Duplicate name",
			fmt.Sprintf("%q is already declared.", name))
	}
	p.Names = append(p.Names, name)
	return nil
}

func (p *Program) resolveOutput(output *string, filename string) (autodiff.Value, error) {
	if output != nil {
		v, ok := p.scope[*output]
		if !ok {
			return autodiff.Value{}, fmt.Errorf("graph file %s: output %q is not declared", filename, *output)
		}
		return v, nil
	}
	if len(p.Names) == 0 {
		return autodiff.Value{}, fmt.Errorf("graph file %s: no leaves or nodes declared", filename)
	}
	return p.scope[p.Names[len(p.Names)-1]], nil
}

// diagError wraps a single error diagnostic as an error.
func diagError(rng hcl.Range, summary, detail string) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}
