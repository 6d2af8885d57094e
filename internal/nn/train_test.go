package nn_test

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/metrics"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

// counter returns a callback appending every recorded step to steps.
func counter(steps *[]int) metrics.Callback {
	return func(step int, _ float64) { *steps = append(*steps, step) }
}

// TestTrain_AND trains a 2-4-2 network on the AND truth table to perfect
// accuracy.
func TestTrain_AND(t *testing.T) {
	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.5})
	rng := seeded(42)
	model := nn.NewMLP(
		nn.NewDense(2, 4, nn.Tanh{}, nn.DenseConfig{Optimizer: sgd, Rand: rng}),
		nn.NewDense(4, 2, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd, Rand: rng}),
	)
	data := dataset.AND()

	result, err := model.Train(data, nn.TrainConfig{
		Epochs:  3000,
		Metrics: []string{metrics.TrainLoss, metrics.TrainAccuracy},
		LogDir:  t.TempDir(),
		Rand:    rng,
	})
	require.NoError(t, err)
	assert.Equal(t, 3000, result.Epochs)
	assert.Equal(t, 3000*4, result.Steps)
	assert.False(t, result.StoppedEarly)
	assert.Less(t, result.FinalLoss, 0.1)

	for i, in := range data.Inputs {
		out, err := model.Predict(in)
		require.NoError(t, err)
		want := 0
		if data.Outputs[i][1] == 1 {
			want = 1
		}
		got := 0
		if out[1] > out[0] {
			got = 1
		}
		assert.Equal(t, want, got, "input %v -> %v", in, out)
	}
}

func TestTrain_MetricLogs(t *testing.T) {
	dir := t.TempDir()
	model := newMLP(2, 3, 2)

	_, err := model.Train(dataset.AND(), nn.TrainConfig{
		Epochs:      2,
		Metrics:     []string{metrics.TrainLoss, metrics.TrainAccuracy},
		LogDir:      dir,
		SampleEvery: 4,
	})
	require.NoError(t, err)

	for _, name := range []string{metrics.TrainLoss, metrics.TrainAccuracy} {
		lines := readLines(t, filepath.Join(dir, name+".txt"))
		require.Len(t, lines, 3, name)
		assert.Equal(t, name, lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "0,"), lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "4,"), lines[2])
	}
	assert.NoFileExists(t, filepath.Join(dir, metrics.TestLoss+".txt"))
}

// TestTrain_SampleCadence checks that metrics are taken whenever
// step % SampleEvery < BatchSize, with the step advancing by BatchSize.
func TestTrain_SampleCadence(t *testing.T) {
	data, err := dataset.Batch(dataset.AND(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, data.Len())

	var steps []int
	result, err := newMLP(2, 3, 2).Train(data, nn.TrainConfig{
		Epochs:      3,
		BatchSize:   2,
		Metrics:     []string{metrics.TrainLoss},
		Callbacks:   map[string]metrics.Callback{metrics.TrainLoss: counter(&steps)},
		LogDir:      t.TempDir(),
		SampleEvery: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Steps)
	assert.Equal(t, []int{0, 4, 8}, steps)
}

func TestTrain_BatchSizeMismatch(t *testing.T) {
	_, err := newMLP(2, 2).Train(dataset.AND(), nn.TrainConfig{
		BatchSize: 3,
		LogDir:    t.TempDir(),
	})
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
}

// TestTrain_NoiseKeepsCleanTarget feeds a corrupted input and checks that the
// loss is measured against the clean expected output.
func TestTrain_NoiseKeepsCleanTarget(t *testing.T) {
	layer := newDense(1, 1, nn.Identity{}, 0.01)
	setWeights(t, layer, []float64{1}, []float64{0})
	model := nn.NewMLP(layer)

	data := nn.Dataset{Inputs: [][]float64{{1}}, Outputs: [][]float64{{1}}}
	var losses []float64
	_, err := model.Train(data, nn.TrainConfig{
		Metrics: []string{metrics.TrainLoss},
		Callbacks: map[string]metrics.Callback{
			metrics.TrainLoss: func(_ int, v float64) { losses = append(losses, v) },
		},
		LogDir: t.TempDir(),
		Noise:  func(s []float64) []float64 { return make([]float64, len(s)) },
	})
	require.NoError(t, err)

	// Noisy input 0 gives output 0; the clean target is 1.
	require.Len(t, losses, 1)
	assert.InDelta(t, 1.0, losses[0], 1e-12)
	assert.Equal(t, []float64{1}, data.Inputs[0])
}

// TestTrain_UpdateEvery checks how often the optimizer is stepped. Each
// update steps two parameters per layer.
func TestTrain_UpdateEvery(t *testing.T) {
	tests := []struct {
		name        string
		updateEvery int
		wantSteps   int
	}{
		{"every sample", 0, 4 * 2},
		{"pairs", 2, 2 * 2},
		{"remainder flushed", 3, 2 * 2},
		{"longer than epoch", 10, 1 * 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := &countingOptimizer{}
			model := nn.NewMLP(nn.NewDense(2, 2, nn.Sigmoid{}, nn.DenseConfig{Optimizer: opt, Rand: seeded(1)}))

			_, err := model.Train(dataset.AND(), nn.TrainConfig{
				UpdateEvery: tt.updateEvery,
				LogDir:      t.TempDir(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSteps, opt.steps)
		})
	}
}

func TestTrain_AcceptableError(t *testing.T) {
	result, err := newMLP(2, 2).Train(dataset.AND(), nn.TrainConfig{
		Epochs:          100,
		AcceptableError: 10,
		LogDir:          t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, result.StoppedEarly)
	assert.Equal(t, 1, result.Epochs)
	assert.Equal(t, 4, result.Steps)
}

func TestTrain_Validation(t *testing.T) {
	dir := t.TempDir()
	test := dataset.OR()
	var testSteps []int

	_, err := newMLP(2, 3, 2).Train(dataset.AND(), nn.TrainConfig{
		Epochs:      2,
		Metrics:     []string{metrics.TestLoss, metrics.TestAccuracy},
		Callbacks:   map[string]metrics.Callback{metrics.TestLoss: counter(&testSteps)},
		LogDir:      dir,
		Test:        &test,
		SampleEvery: 2,
		Rand:        seeded(5),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6}, testSteps)

	lines := readLines(t, filepath.Join(dir, metrics.TestAccuracy+".txt"))
	require.Len(t, lines, 5)
	for _, line := range lines[1:] {
		v := line[strings.Index(line, ",")+1:]
		assert.Contains(t, []string{"0", "100"}, v)
	}
}

// TestTrain_Autoencoder trains on inputs only; every sample is its own
// target, for training and for validation.
func TestTrain_Autoencoder(t *testing.T) {
	data := nn.Dataset{Inputs: dataset.OneHot(4).Inputs}
	var losses []float64

	result, err := newMLP(4, 2, 4).Train(data, nn.TrainConfig{
		Epochs:      5,
		Metrics:     []string{metrics.TrainLoss, metrics.TestLoss},
		Callbacks:   map[string]metrics.Callback{metrics.TestLoss: func(_ int, v float64) { losses = append(losses, v) }},
		LogDir:      t.TempDir(),
		Test:        &nn.Dataset{Inputs: data.Inputs},
		SampleEvery: 4,
		Noise:       nn.MaskingNoise(0.2, seeded(2)),
		Shuffle:     true,
		Rand:        seeded(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Epochs)
	assert.Len(t, losses, 5)
	assert.Nil(t, data.Outputs)
}

func TestTrain_InvalidMetric(t *testing.T) {
	dir := t.TempDir()
	_, err := newMLP(2, 2).Train(dataset.AND(), nn.TrainConfig{
		Metrics: []string{"train_los"},
		LogDir:  dir,
	})
	assert.ErrorIs(t, err, metrics.ErrInvalidConfig)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrain_MisalignedDataset(t *testing.T) {
	data := dataset.AND()
	data.Outputs = data.Outputs[:3]

	_, err := newMLP(2, 2).Train(data, nn.TrainConfig{LogDir: t.TempDir()})
	assert.ErrorIs(t, err, nn.ErrShapeMismatch)
}

// TestTrain_ClosesWriterOnError checks that the telemetry sink is closed
// when training fails half-way.
func TestTrain_ClosesWriterOnError(t *testing.T) {
	data := dataset.AND()
	data.Inputs[2] = []float64{1, 0, 1}
	sink := metrics.NewMemorySink()

	_, err := newMLP(2, 2).Train(data, nn.TrainConfig{
		Metrics:     []string{metrics.TrainLoss},
		LogDir:      t.TempDir(),
		Sink:        sink,
		SampleEvery: 1,
	})
	require.ErrorIs(t, err, nn.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "sample 2")
	assert.True(t, sink.Closed())
	assert.Len(t, sink.Series(metrics.TrainLoss), 2)
}

func TestTrain_Telemetry(t *testing.T) {
	dir := t.TempDir()
	_, err := newMLP(2, 2).Train(dataset.AND(), nn.TrainConfig{
		Metrics:     []string{metrics.TrainLoss},
		LogDir:      dir,
		Telemetry:   true,
		SampleEvery: 1,
	})
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "runs", "*", "events.jsonl"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Len(t, readLines(t, files[0]), 4)
}

func TestValidate(t *testing.T) {
	model := newMLP(2, 2)
	model.SetLoss(nn.MSE{})
	sink := metrics.NewMemorySink()
	w, err := metrics.New(metrics.Config{
		Names: []string{metrics.TestLoss},
		Dir:   t.TempDir(),
		Sink:  sink,
	})
	require.NoError(t, err)
	defer w.Close()

	test := dataset.XOR()
	require.NoError(t, model.Validate(test, 7, w, w.Names(), 1, seeded(1)))
	points := sink.Series(metrics.TestLoss)
	require.Len(t, points, 1)
	assert.Equal(t, 7, points[0].Step)

	// Without a recorder only the forward pass runs.
	require.NoError(t, model.Validate(test, 8, nil, nil, 1, nil))
	assert.NotNil(t, model.Layers()[0].Output())

	assert.ErrorIs(t, model.Validate(nn.Dataset{}, 0, w, w.Names(), 1, nil), nn.ErrInvalidState)
}

func TestTrain_BindsLoss(t *testing.T) {
	model := newMLP(2, 2)
	_, err := model.Train(dataset.AND(), nn.TrainConfig{
		Loss:   nn.Huber{Delta: 0.5},
		LogDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, "huber", model.LossFunc().Name())

	out := model.Layers()[0].Output()
	r, c := out.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)
}
