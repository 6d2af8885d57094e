package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Loss is a scalar error function together with its derivative with
// respect to the network output.
//
// expected and actual are both shaped [units, batch_size]. Implementations
// hold no mutable state, so a single value can be shared across a whole
// training run and across networks. Callers validate shapes; passing
// mismatched matrices panics.
type Loss interface {
	// Name returns the identifier used by LossByName.
	Name() string

	// Apply returns the scalar loss of actual against expected.
	Apply(expected, actual *mat.Dense) float64

	// Derivative returns ∂loss/∂actual, shaped like actual.
	Derivative(expected, actual *mat.Dense) *mat.Dense
}

// LossByName returns the loss registered under name.
//
// Known names: "mse", "mae", "cross-entropy", "huber" (δ = 1).
func LossByName(name string) (Loss, error) {
	switch name {
	case "mse":
		return MSE{}, nil
	case "mae", "abs":
		return MAE{}, nil
	case "cross-entropy", "crossentropy":
		return CrossEntropy{}, nil
	case "huber":
		return Huber{Delta: 1}, nil
	default:
		return nil, fmt.Errorf("nn: unknown loss %q", name)
	}
}

func elementCount(m *mat.Dense) float64 {
	r, c := m.Dims()
	return float64(r * c)
}

// MSE computes Mean Squared Error loss.
//
// Loss = mean((actual - expected)²)
//
// MSE is the default loss of TrainConfig.
type MSE struct{}

// Name returns "mse".
func (MSE) Name() string { return "mse" }

// Apply computes mean((actual - expected)²).
func (MSE) Apply(expected, actual *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(actual, expected)
	diff.MulElem(&diff, &diff)
	return mat.Sum(&diff) / elementCount(actual)
}

// Derivative computes 2·(actual - expected)/n.
func (MSE) Derivative(expected, actual *mat.Dense) *mat.Dense {
	var grad mat.Dense
	grad.Sub(actual, expected)
	grad.Scale(2/elementCount(actual), &grad)
	return &grad
}

// MAE computes Mean Absolute Error loss.
//
// Loss = mean(|actual - expected|)
type MAE struct{}

// Name returns "mae".
func (MAE) Name() string { return "mae" }

// Apply computes mean(|actual - expected|).
func (MAE) Apply(expected, actual *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(actual, expected)
	diff.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, &diff)
	return mat.Sum(&diff) / elementCount(actual)
}

// Derivative computes sign(actual - expected)/n.
func (MAE) Derivative(expected, actual *mat.Dense) *mat.Dense {
	n := elementCount(actual)
	var grad mat.Dense
	grad.Sub(actual, expected)
	grad.Apply(func(_, _ int, v float64) float64 {
		switch {
		case v > 0:
			return 1 / n
		case v < 0:
			return -1 / n
		default:
			return 0
		}
	}, &grad)
	return &grad
}

// crossEntropyEps keeps log and division away from zero.
const crossEntropyEps = 1e-12

// CrossEntropy computes categorical cross-entropy over probability outputs.
//
// Loss = -Σ expected·log(actual) / batch_size
//
// actual is expected to hold probabilities (e.g. a Softmax or Sigmoid
// output layer); values are clamped to [eps, 1].
type CrossEntropy struct{}

// Name returns "cross-entropy".
func (CrossEntropy) Name() string { return "cross-entropy" }

// Apply computes -Σ expected·log(actual) averaged over the batch.
func (CrossEntropy) Apply(expected, actual *mat.Dense) float64 {
	_, c := actual.Dims()
	var terms mat.Dense
	terms.Apply(func(i, j int, a float64) float64 {
		return -expected.At(i, j) * math.Log(math.Max(a, crossEntropyEps))
	}, actual)
	return mat.Sum(&terms) / float64(c)
}

// Derivative computes -expected/actual averaged over the batch.
func (CrossEntropy) Derivative(expected, actual *mat.Dense) *mat.Dense {
	_, c := actual.Dims()
	var grad mat.Dense
	grad.Apply(func(i, j int, a float64) float64 {
		return -expected.At(i, j) / math.Max(a, crossEntropyEps) / float64(c)
	}, actual)
	return &grad
}

// Huber is quadratic for errors within Delta and linear beyond it.
//
//	Loss = mean(½d²)          for |d| ≤ δ
//	Loss = mean(δ|d| − ½δ²)   otherwise
//
// A zero Delta is treated as 1.
type Huber struct {
	Delta float64
}

// Name returns "huber".
func (Huber) Name() string { return "huber" }

func (h Huber) delta() float64 {
	if h.Delta == 0 {
		return 1
	}
	return h.Delta
}

// Apply computes the mean Huber loss.
func (h Huber) Apply(expected, actual *mat.Dense) float64 {
	delta := h.delta()
	var terms mat.Dense
	terms.Sub(actual, expected)
	terms.Apply(func(_, _ int, v float64) float64 {
		d := math.Abs(v)
		if d <= delta {
			return 0.5 * d * d
		}
		return delta*d - 0.5*delta*delta
	}, &terms)
	return mat.Sum(&terms) / elementCount(actual)
}

// Derivative computes clip(actual - expected, -δ, δ)/n.
func (h Huber) Derivative(expected, actual *mat.Dense) *mat.Dense {
	delta := h.delta()
	n := elementCount(actual)
	var grad mat.Dense
	grad.Sub(actual, expected)
	grad.Apply(func(_, _ int, v float64) float64 {
		return math.Max(-delta, math.Min(delta, v)) / n
	}, &grad)
	return &grad
}
