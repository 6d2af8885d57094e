package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/metrics"
	"github.com/born-ml/mlp/internal/nn"
)

const xorRun = `
input: 2
layers:
  - {units: 3, activation: tanh}
  - {units: 2, activation: softmax}
loss: cross-entropy
optimizer:
  name: adam
  learning_rate: 0.01
epochs: 50
batch_size: 1
metrics: [train_loss, train_accuracy]
sample_every: 10
acceptable_error: 0.001
shuffle: true
seed: 7
noise: {kind: gaussian, amount: 0.05}
`

func TestParse(t *testing.T) {
	run, err := Parse([]byte(xorRun))
	require.NoError(t, err)

	assert.Equal(t, 2, run.Input)
	assert.Equal(t, []LayerSpec{{3, "tanh"}, {2, "softmax"}}, run.Layers)
	assert.Equal(t, OptimizerSpec{Name: "adam", LearningRate: 0.01}, run.Optimizer)
	assert.Equal(t, 50, run.Epochs)
	assert.Equal(t, 10, run.SampleEvery)
	assert.True(t, run.Shuffle)
	assert.Equal(t, &NoiseSpec{Kind: "gaussian", Amount: 0.05}, run.Noise)

	// Missing fields keep their defaults.
	assert.Equal(t, ".", run.LogDir)
	assert.Equal(t, 1, run.UpdateEvery)
}

func TestParse_Empty(t *testing.T) {
	run, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), run)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("input: 2\nhidden: 4\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Run)
	}{
		{"no input", func(r *Run) { r.Input = 0 }},
		{"no layers", func(r *Run) { r.Layers = nil }},
		{"zero units", func(r *Run) { r.Layers[0].Units = 0 }},
		{"unknown activation", func(r *Run) { r.Layers[1].Activation = "swish" }},
		{"unknown loss", func(r *Run) { r.Loss = "hinge" }},
		{"unknown optimizer", func(r *Run) { r.Optimizer.Name = "lbfgs" }},
		{"no epochs", func(r *Run) { r.Epochs = 0 }},
		{"no batch", func(r *Run) { r.BatchSize = -1 }},
		{"no sampling", func(r *Run) { r.SampleEvery = 0 }},
		{"unknown metric", func(r *Run) { r.Metrics = []string{"val_loss"} }},
		{"unknown noise", func(r *Run) { r.Noise = &NoiseSpec{Kind: "salt"} }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := Default()
			tt.mutate(run)
			assert.ErrorIs(t, run.Validate(), ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(xorRun), 0o644))

	run, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cross-entropy", run.Loss)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("epochs: -3\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), bad)
}

func TestBuildNetwork(t *testing.T) {
	run, err := Parse([]byte(xorRun))
	require.NoError(t, err)

	model, err := run.BuildNetwork()
	require.NoError(t, err)

	layers := model.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, 2, layers[0].InputDim())
	assert.Equal(t, 3, layers[0].OutputDim())
	assert.Equal(t, "tanh", layers[0].Activation().Name())
	assert.Equal(t, 3, layers[1].InputDim())
	assert.Equal(t, "softmax", layers[1].Activation().Name())
	assert.Equal(t, 2*3+3+3*2+2, model.NumParameters())

	// The same seed gives the same weights.
	again, err := run.BuildNetwork()
	require.NoError(t, err)
	a := layers[0].(*nn.Dense).Weight().Value().RawMatrix().Data
	b := again.Layers()[0].(*nn.Dense).Weight().Value().RawMatrix().Data
	assert.Equal(t, a, b)
}

func TestTrainConfig(t *testing.T) {
	run, err := Parse([]byte(xorRun))
	require.NoError(t, err)

	config, err := run.TrainConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "cross-entropy", config.Loss.Name())
	assert.Equal(t, 50, config.Epochs)
	assert.Equal(t, []string{metrics.TrainLoss, metrics.TrainAccuracy}, config.Metrics)
	assert.Equal(t, 0.001, config.AcceptableError)
	assert.True(t, config.Shuffle)
	assert.NotNil(t, config.Noise)
	assert.NotNil(t, config.Rand)

	run.Loss = "huber"
	run.HuberDelta = 0.3
	config, err = run.TrainConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, nn.Huber{Delta: 0.3}, config.Loss)
}

// TestRun_TrainsEndToEnd builds and trains the default network from a run
// file.
func TestRun_TrainsEndToEnd(t *testing.T) {
	run := Default()
	run.Epochs = 5
	run.LogDir = t.TempDir()

	model, err := run.BuildNetwork()
	require.NoError(t, err)
	config, err := run.TrainConfig(nil)
	require.NoError(t, err)

	data := nn.Dataset{
		Inputs:  [][]float64{{0, 0}, {1, 1}},
		Outputs: [][]float64{{1, 0}, {0, 1}},
	}
	result, err := model.Train(data, config)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Epochs)
	assert.FileExists(t, filepath.Join(run.LogDir, "train_loss.txt"))
}
