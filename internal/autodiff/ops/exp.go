package ops

import "math"

// expRule represents the exponential operation: y = exp(x).
//
// Backward pass:
//   - d(exp(x))/dx = exp(x) = y
//   - grad_input = grad_output * output
var expRule = Rule{
	Tag:   "exp",
	Arity: 1,
	Forward: func(x Args) float64 {
		return math.Exp(x.A)
	},
	Backward: func(_ Args, out, grad float64) (float64, float64) {
		return grad * out, 0
	},
}
