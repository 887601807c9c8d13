package graphfile

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// compiler turns hclsyntax expression trees into graph nodes.
type compiler struct {
	g     *autodiff.Graph
	scope map[string]autodiff.Value
}

// compile walks expr and returns the node computing it. Literals become
// unlabeled constant leaves.
func (c *compiler) compile(expr hclsyntax.Expression) (autodiff.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		f, err := number(e.Val, e.Range())
		if err != nil {
			return autodiff.Value{}, err
		}
		return c.g.Leaf(f, ""), nil

	case *hclsyntax.ScopeTraversalExpr:
		return c.reference(e)

	case *hclsyntax.ParenthesesExpr:
		return c.compile(e.Expression)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return autodiff.Value{}, unsupported(e.Range(), "operator")
		}
		v, err := c.compile(e.Val)
		if err != nil {
			return autodiff.Value{}, err
		}
		return v.Neg(), nil

	case *hclsyntax.BinaryOpExpr:
		return c.binary(e)

	case *hclsyntax.FunctionCallExpr:
		return c.call(e)
	}
	return autodiff.Value{}, unsupported(expr.Range(), "expression")
}

func (c *compiler) reference(e *hclsyntax.ScopeTraversalExpr) (autodiff.Value, error) {
	if len(e.Traversal) != 1 {
		return autodiff.Value{}, diagError(e.Range(), "Unsupported reference",
			"Only plain names can be referenced; attribute and index access are not supported.")
	}
	name := e.Traversal.RootName()
	v, ok := c.scope[name]
	if !ok {
		return autodiff.Value{}, diagError(e.Range(), "Unknown name",
			fmt.Sprintf("%q is not a leaf or a node declared above this one.", name))
	}
	return v, nil
}

func (c *compiler) binary(e *hclsyntax.BinaryOpExpr) (autodiff.Value, error) {
	var apply func(a, b autodiff.Value) autodiff.Value
	switch e.Op {
	case hclsyntax.OpAdd:
		apply = autodiff.Value.Add
	case hclsyntax.OpSubtract:
		apply = autodiff.Value.Sub
	case hclsyntax.OpMultiply:
		apply = autodiff.Value.Mul
	case hclsyntax.OpDivide:
		apply = autodiff.Value.Div
	default:
		return autodiff.Value{}, unsupported(e.Range(), "operator")
	}

	lhs, err := c.compile(e.LHS)
	if err != nil {
		return autodiff.Value{}, err
	}
	rhs, err := c.compile(e.RHS)
	if err != nil {
		return autodiff.Value{}, err
	}
	return apply(lhs, rhs), nil
}

func (c *compiler) call(e *hclsyntax.FunctionCallExpr) (autodiff.Value, error) {
	switch e.Name {
	case "exp", "tanh":
		if len(e.Args) != 1 {
			return autodiff.Value{}, arity(e, 1)
		}
		x, err := c.compile(e.Args[0])
		if err != nil {
			return autodiff.Value{}, err
		}
		if e.Name == "exp" {
			return x.Exp(), nil
		}
		return x.Tanh(), nil

	case "pow":
		if len(e.Args) != 2 {
			return autodiff.Value{}, arity(e, 2)
		}
		x, err := c.compile(e.Args[0])
		if err != nil {
			return autodiff.Value{}, err
		}
		exponent, err := c.exponent(e.Args[1])
		if err != nil {
			return autodiff.Value{}, err
		}
		v, err := x.PowOperand(exponent)
		if err != nil {
			return autodiff.Value{}, fmt.Errorf("%s: %w", e.Args[1].Range(), err)
		}
		return v, nil
	}

	return autodiff.Value{}, diagError(e.NameRange, "Unknown function",
		fmt.Sprintf("There is no function named %q; available are exp, tanh and pow.", e.Name))
}

// exponent returns the constant value of a pow exponent, or the node it
// refers to so that the graph can reject it.
func (c *compiler) exponent(expr hclsyntax.Expression) (any, error) {
	if len(expr.Variables()) > 0 {
		return c.compile(expr)
	}
	return constant(expr)
}

// constant evaluates an expression that refers to no names.
func constant(expr hcl.Expression) (float64, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	return number(val, expr.Range())
}

// number converts a known cty number to float64.
func number(val cty.Value, rng hcl.Range) (float64, error) {
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
		return 0, diagError(rng, "Number required",
			fmt.Sprintf("Expected a number, got %s.", val.Type().FriendlyName()))
	}
	var f float64
	if err := gocty.FromCtyValue(val, &f); err != nil {
		return 0, diagError(rng, "Invalid number", err.Error())
	}
	return f, nil
}

func unsupported(rng hcl.Range, what string) error {
	return diagError(rng, "Unsupported "+what,
		"Only + - * /, unary minus, parentheses, numbers, names and exp, tanh, pow are supported.")
}

func arity(e *hclsyntax.FunctionCallExpr, want int) error {
	return diagError(e.Range(), "Wrong number of arguments",
		fmt.Sprintf("%s takes %d arguments, got %d.", e.Name, want, len(e.Args)))
}
