package ops

// mulRule represents multiplication: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
var mulRule = Rule{
	Tag:   "*",
	Arity: 2,
	Forward: func(x Args) float64 {
		return x.A * x.B
	},
	Backward: func(x Args, _, grad float64) (float64, float64) {
		return grad * x.B, grad * x.A
	},
}
