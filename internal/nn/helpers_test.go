package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// countingOptimizer records Step calls without touching parameters.
type countingOptimizer struct {
	steps int
}

func (c *countingOptimizer) Step(*nn.Parameter) { c.steps++ }
func (c *countingOptimizer) LR() float64        { return 0 }

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newDense builds a layer with an SGD optimizer and a fixed seed.
func newDense(in, out int, act nn.Activation, lr float64) *nn.Dense {
	return nn.NewDense(in, out, act, nn.DenseConfig{
		Optimizer: optim.NewSGD(optim.SGDConfig{LR: lr}),
		Rand:      seeded(1),
	})
}

func setWeights(t *testing.T, d *nn.Dense, weight, bias []float64) {
	t.Helper()
	w := d.Weight().Value()
	r, c := w.Dims()
	require.Len(t, weight, r*c)
	w.Copy(mat.NewDense(r, c, weight))
	if bias != nil {
		b := d.Bias().Value()
		require.Len(t, bias, r)
		b.Copy(mat.NewDense(r, 1, bias))
	}
}

func column(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}
