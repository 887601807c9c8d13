package autodiff

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrInvalidOperand is returned when an operand has a type the operation
	// cannot accept, such as a node used as the exponent of Pow.
	ErrInvalidOperand = errors.New("invalid operand")
)

// Kinds of invariant violation.
const (
	ViolationCycle         = "cycle"
	ViolationPrematureRule = "premature_rule"
	ViolationForeignValue  = "foreign_value"
	ViolationUnknownNode   = "unknown_node"
	ViolationArity         = "arity"
)

// InvariantViolation reports a broken internal invariant of the graph or the
// scheduler. Well-formed use of the construction API cannot produce one, so it
// is raised with panic rather than returned.
type InvariantViolation struct {
	Kind    string // Kind of violation (e.g., "cycle", "premature_rule")
	Node    ID     // Node at which the violation was detected, or NoID
	Details string // Additional details
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	if e.Node != NoID {
		return fmt.Sprintf("autodiff: invariant violation: %s: node %d: %s", e.Kind, e.Node, e.Details)
	}
	return fmt.Sprintf("autodiff: invariant violation: %s: %s", e.Kind, e.Details)
}

func violate(kind string, id ID, format string, args ...any) {
	panic(&InvariantViolation{
		Kind:    kind,
		Node:    id,
		Details: fmt.Sprintf(format, args...),
	})
}
