package ops

import "math"

// tanhRule represents the hyperbolic tangent: tanh(x) = (e^{2x} - 1) / (e^{2x} + 1).
//
// math.Tanh is used for the forward pass; it agrees with the closed form and
// does not overflow for large |x|.
//
// Backward pass:
//
//	d(tanh(x))/dx = 1 - tanh²(x)
//
// Since we have the output tanh(x) already computed:
// grad_input = grad_output * (1 - output²).
var tanhRule = Rule{
	Tag:   "tanh",
	Arity: 1,
	Forward: func(x Args) float64 {
		return math.Tanh(x.A)
	},
	Backward: func(_ Args, out, grad float64) (float64, float64) {
		return grad * (1 - out*out), 0
	},
}
