package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Activation is an element-wise (or column-wise) non-linearity together with
// its derivative.
//
// Both methods take the pre-activation z of a layer, shaped
// [units, batch_size], and return a new matrix of the same shape. Neither
// method modifies z. Activations are stateless and safe to share between
// layers and networks.
type Activation interface {
	// Name returns the identifier used by ActivationByName.
	Name() string

	// Apply computes a = f(z).
	Apply(z *mat.Dense) *mat.Dense

	// Derivative computes f'(z) element-wise.
	Derivative(z *mat.Dense) *mat.Dense
}

// ActivationByName returns the activation registered under name.
//
// Known names: "identity", "sigmoid", "tanh", "relu", "softmax".
func ActivationByName(name string) (Activation, error) {
	switch name {
	case "identity", "linear":
		return Identity{}, nil
	case "sigmoid", "logistic":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "relu":
		return ReLU{}, nil
	case "softmax":
		return Softmax{}, nil
	default:
		return nil, fmt.Errorf("nn: unknown activation %q", name)
	}
}

func mapDense(z *mat.Dense, fn func(float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return fn(v) }, z)
	return &out
}

// Identity passes values through unchanged: f(x) = x.
type Identity struct{}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// Apply returns a copy of z.
func (Identity) Apply(z *mat.Dense) *mat.Dense { return mat.DenseCopyOf(z) }

// Derivative returns a matrix of ones.
func (Identity) Derivative(z *mat.Dense) *mat.Dense {
	return mapDense(z, func(float64) float64 { return 1 })
}

// Sigmoid is the logistic function σ(x) = 1 / (1 + exp(-x)).
//
// Sigmoid squashes values to the range (0, 1).
type Sigmoid struct{}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// Apply computes σ(z).
func (Sigmoid) Apply(z *mat.Dense) *mat.Dense { return mapDense(z, sigmoid) }

// Derivative computes σ(z)·(1 − σ(z)).
func (Sigmoid) Derivative(z *mat.Dense) *mat.Dense {
	return mapDense(z, func(x float64) float64 {
		s := sigmoid(x)
		return s * (1 - s)
	})
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Tanh is the hyperbolic tangent. It is zero-centred with range (-1, 1).
type Tanh struct{}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }

// Apply computes tanh(z).
func (Tanh) Apply(z *mat.Dense) *mat.Dense { return mapDense(z, math.Tanh) }

// Derivative computes 1 − tanh²(z).
func (Tanh) Derivative(z *mat.Dense) *mat.Dense {
	return mapDense(z, func(x float64) float64 {
		t := math.Tanh(x)
		return 1 - t*t
	})
}

// ReLU is the rectified linear unit f(x) = max(0, x).
type ReLU struct{}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// Apply computes max(0, z).
func (ReLU) Apply(z *mat.Dense) *mat.Dense {
	return mapDense(z, func(x float64) float64 { return math.Max(0, x) })
}

// Derivative is 1 for positive inputs and 0 otherwise.
func (ReLU) Derivative(z *mat.Dense) *mat.Dense {
	return mapDense(z, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})
}

// Softmax normalises every column of z into a probability distribution.
//
// Each column is treated as one sample, so batches are handled without a
// special case. The max of the column is subtracted before exponentiation.
type Softmax struct{}

// Name returns "softmax".
func (Softmax) Name() string { return "softmax" }

// Apply computes the column-wise softmax of z.
func (Softmax) Apply(z *mat.Dense) *mat.Dense {
	r, c := z.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, z)
		maxVal := floats.Max(col)
		for i := range col {
			col[i] = math.Exp(col[i] - maxVal)
		}
		floats.Scale(1/floats.Sum(col), col)
		out.SetCol(j, col)
	}
	return out
}

// Derivative returns the diagonal of the softmax Jacobian, s·(1 − s).
//
// Off-diagonal terms are dropped, so the chain rule through Softmax is
// exact only when the loss gradient is computed per output unit.
func (s Softmax) Derivative(z *mat.Dense) *mat.Dense {
	out := s.Apply(z)
	out.Apply(func(_, _ int, v float64) float64 { return v * (1 - v) }, out)
	return out
}
