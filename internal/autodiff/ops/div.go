package ops

// divRule represents division: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = outputGrad / b
//   - d(a/b)/db = -a/b², so grad_b = -outputGrad * a / b²
//
// A zero divisor yields ±Inf or NaN in both passes, as IEEE 754 dictates.
var divRule = Rule{
	Tag:   "/",
	Arity: 2,
	Forward: func(x Args) float64 {
		return x.A / x.B
	},
	Backward: func(x Args, _, grad float64) (float64, float64) {
		return grad / x.B, -grad * x.A / (x.B * x.B)
	},
}
