package ops

// addRule represents addition: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
var addRule = Rule{
	Tag:   "+",
	Arity: 2,
	Forward: func(x Args) float64 {
		return x.A + x.B
	},
	Backward: func(_ Args, _, grad float64) (float64, float64) {
		// Gradient flows equally to both inputs.
		return grad, grad
	},
}
