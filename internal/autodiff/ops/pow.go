package ops

import "math"

// powRule represents exponentiation by a constant: output = a^k.
// The exponent k is carried in Args.Param and is never a node.
//
// Backward pass:
//   - d(a^k)/da = k * a^(k-1), so grad_a = outputGrad * k * a^(k-1)
var powRule = Rule{
	Tag:   "**",
	Arity: 1,
	Forward: func(x Args) float64 {
		return math.Pow(x.A, x.Param)
	},
	Backward: func(x Args, _, grad float64) (float64, float64) {
		return grad * x.Param * math.Pow(x.A, x.Param-1), 0
	},
}
