package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/nn"
)

func TestLosses(t *testing.T) {
	expected := column(0, 0)
	actual := column(0.5, -3)

	tests := []struct {
		loss       nn.Loss
		value      float64
		derivative []float64
	}{
		{nn.MSE{}, (0.25 + 9) / 2, []float64{0.5, -3}},
		{nn.MAE{}, (0.5 + 3) / 2, []float64{0.5, -0.5}},
		{nn.Huber{}, (0.125 + 2.5) / 2, []float64{0.25, -0.5}},
		{nn.Huber{Delta: 2}, (0.125 + 4) / 2, []float64{0.25, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.loss.Name(), func(t *testing.T) {
			assert.InDelta(t, tt.value, tt.loss.Apply(expected, actual), 1e-12)
			assert.InDeltaSlice(t, tt.derivative, mat.Col(nil, 0, tt.loss.Derivative(expected, actual)), 1e-12)
		})
	}
}

func TestLosses_ZeroAtTarget(t *testing.T) {
	y := mat.NewDense(2, 2, []float64{0.1, 0.9, 0.9, 0.1})
	for _, loss := range []nn.Loss{nn.MSE{}, nn.MAE{}, nn.Huber{}} {
		assert.Zero(t, loss.Apply(y, y), loss.Name())
		assert.Zero(t, mat.Sum(loss.Derivative(y, y)), loss.Name())
	}
}

func TestCrossEntropy(t *testing.T) {
	expected := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	actual := mat.NewDense(2, 2, []float64{
		0.5, 0.2,
		0.5, 0.8,
	})

	ce := nn.CrossEntropy{}
	want := (-math.Log(0.5) - math.Log(0.8)) / 2
	assert.InDelta(t, want, ce.Apply(expected, actual), 1e-12)

	grad := ce.Derivative(expected, actual)
	assert.InDelta(t, -1.0, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, grad.At(0, 1), 1e-12)
	assert.InDelta(t, -1/0.8/2, grad.At(1, 1), 1e-12)

	// Zero probabilities are clamped.
	assert.False(t, math.IsInf(ce.Apply(expected, mat.NewDense(2, 2, nil)), 0))
}

func TestLossByName(t *testing.T) {
	for _, name := range []string{"mse", "mae", "cross-entropy", "huber"} {
		loss, err := nn.LossByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, loss.Name())
	}

	_, err := nn.LossByName("hinge")
	assert.Error(t, err)
}
