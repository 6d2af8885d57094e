package nn

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/metrics"
)

// DefaultSampleEvery is the step cadence at which training metrics are
// recorded.
const DefaultSampleEvery = 1000

// Recorder is the narrow contract the network needs from a metrics writer.
//
// *metrics.Writer implements it.
type Recorder interface {
	Add(metric string, step int, value float64) error
}

// TrainConfig holds configuration for MLP.Train.
//
// A fresh TrainConfig is expected per Train call; zero values are replaced
// with defaults on a copy, so nothing is shared between calls.
type TrainConfig struct {
	Loss      Loss // Loss function (default: MSE)
	Epochs    int  // Passes over the dataset (default: 1)
	BatchSize int  // Columns per sample (default: 1)

	Metrics   []string                    // Recorded metrics (default: train_loss, test_loss)
	Callbacks map[string]metrics.Callback // Invoked on every recorded value of a metric
	LogDir    string                      // Directory of the metric logs (default: ".")
	Telemetry bool                        // Also write metrics to a telemetry sink
	Sink      metrics.Sink                // Telemetry sink (default: event file under LogDir/runs)

	Test  *Dataset  // Optional held-out set, one random draw per metric sample
	Noise NoiseFunc // Optional input corruption; targets stay clean

	SampleEvery     int     // Step cadence of metric samples (default: 1000)
	UpdateEvery     int     // Samples per parameter update; <= 1 updates every sample
	AcceptableError float64 // Stop once the mean training loss is at most this (0 disables)
	Shuffle         bool    // Permute sample order every epoch (default: sequential)

	Rand   *rand.Rand   // Source for validation draws and shuffling (default: time-seeded)
	Logger *slog.Logger // Progress logger (default: slog.Default())
}

func (c TrainConfig) withDefaults() TrainConfig {
	if c.Loss == nil {
		c.Loss = MSE{}
	}
	if c.Epochs == 0 {
		c.Epochs = 1
	}
	if c.BatchSize == 0 {
		c.BatchSize = 1
	}
	if len(c.Metrics) == 0 {
		c.Metrics = metrics.DefaultNames()
	} else {
		c.Metrics = slices.Clone(c.Metrics)
	}
	if c.LogDir == "" {
		c.LogDir = "."
	}
	if c.SampleEvery == 0 {
		c.SampleEvery = DefaultSampleEvery
	}
	if c.Rand == nil {
		c.Rand = newRand()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// TrainResult summarises a training run.
type TrainResult struct {
	Epochs       int     // Epochs completed
	Steps        int     // Sample counter (advances by batch size per sample)
	FinalLoss    float64 // Mean loss over the training set after the last epoch
	StoppedEarly bool    // AcceptableError was reached before the epoch budget
}

// Train fits the network to data.
//
// For every sample of every epoch: the input is optionally corrupted by
// config.Noise, both input and expected output are reshaped into column
// batches, the network is fed forward and backpropagated against the clean
// target. Parameters are updated every sample unless config.UpdateEvery
// defers them.
//
// A step counter advances by BatchSize per sample. Whenever
// step % SampleEvery < BatchSize, the requested train metrics are
// recorded and, if config.Test is set, one validation draw is made.
//
// A dataset without Outputs trains the network to reproduce its inputs.
// The metrics writer is opened before the first epoch and closed on every
// exit path, including errors.
func (m *MLP) Train(data Dataset, config TrainConfig) (result *TrainResult, err error) {
	config = config.withDefaults()

	if _, err := m.lastLayer("MLP.Train"); err != nil {
		return nil, err
	}
	if config.Epochs < 0 || config.BatchSize < 0 || config.SampleEvery < 0 {
		return nil, fmt.Errorf("MLP.Train: negative epochs, batch size or sample cadence")
	}
	if data.Outputs == nil {
		data.Outputs = data.Inputs
	}
	if err := data.validate("MLP.Train"); err != nil {
		return nil, err
	}

	writer, err := metrics.New(metrics.Config{
		Names:     config.Metrics,
		Callbacks: config.Callbacks,
		Dir:       config.LogDir,
		Telemetry: config.Telemetry,
		Sink:      config.Sink,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	m.loss = config.Loss
	for _, layer := range m.layers {
		layer.SetBatchSize(config.BatchSize)
	}

	order := make([]int, data.Len())
	for i := range order {
		order[i] = i
	}

	result = &TrainResult{}
	step := 0
	pending := 0

	for epoch := 0; epoch < config.Epochs; epoch++ {
		config.Logger.Debug("training epoch", "epoch", epoch+1, "of", config.Epochs)

		if config.Shuffle {
			config.Rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		for _, j := range order {
			input := data.Inputs[j]
			if config.Noise != nil {
				input = config.Noise(input)
			}

			x, err := Reshape(input, config.BatchSize)
			if err != nil {
				return nil, fmt.Errorf("sample %d input: %w", j, err)
			}
			y, err := Reshape(data.Outputs[j], config.BatchSize)
			if err != nil {
				return nil, fmt.Errorf("sample %d output: %w", j, err)
			}

			if _, err := m.Feedforward(x, nil); err != nil {
				return nil, fmt.Errorf("sample %d: %w", j, err)
			}

			if config.UpdateEvery <= 1 {
				err = m.Backpropagate(y, true, true)
			} else {
				err = m.deferUpdate(y, &pending, config.UpdateEvery)
			}
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", j, err)
			}

			if step%config.SampleEvery < config.BatchSize {
				if err := m.recordTrain(writer, config.Metrics, step, y); err != nil {
					return nil, err
				}
				if config.Test != nil {
					if err := m.Validate(*config.Test, step, writer, config.Metrics, config.BatchSize, config.Rand); err != nil {
						return nil, err
					}
				}
			}

			step += config.BatchSize
		}
		result.Epochs = epoch + 1

		if config.AcceptableError > 0 {
			loss, err := m.meanLoss(data, config.BatchSize)
			if err != nil {
				return nil, err
			}
			if loss <= config.AcceptableError {
				config.Logger.Info("acceptable error reached", "epoch", epoch+1, "loss", loss)
				result.StoppedEarly = true
				break
			}
		}
	}

	if pending > 0 {
		m.applyAll()
	}

	result.Steps = step
	if data.Len() > 0 {
		if result.FinalLoss, err = m.meanLoss(data, config.BatchSize); err != nil {
			return nil, err
		}
	}
	config.Logger.Info("training finished",
		"epochs", result.Epochs, "steps", result.Steps, "loss", result.FinalLoss)
	return result, nil
}

// deferUpdate backpropagates without touching parameters, accumulates the
// gradients and applies them every `every` samples.
func (m *MLP) deferUpdate(expected *mat.Dense, pending *int, every int) error {
	if err := m.Backpropagate(expected, true, false); err != nil {
		return err
	}
	for i, layer := range m.layers {
		if err := layer.Accumulate(layer.Gradients()); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	*pending++
	if *pending >= every {
		m.applyAll()
		*pending = 0
	}
	return nil
}

func (m *MLP) applyAll() {
	for _, layer := range m.layers {
		layer.Apply()
	}
}

func (m *MLP) recordTrain(rec Recorder, names []string, step int, expected *mat.Dense) error {
	if slices.Contains(names, metrics.TrainLoss) {
		loss, err := m.EvaluateLoss(expected)
		if err != nil {
			return err
		}
		if err := rec.Add(metrics.TrainLoss, step, loss); err != nil {
			return err
		}
	}
	if slices.Contains(names, metrics.TrainAccuracy) {
		acc, err := m.Accuracy(expected)
		if err != nil {
			return err
		}
		if err := rec.Add(metrics.TrainAccuracy, step, acc); err != nil {
			return err
		}
	}
	return nil
}

// meanLoss feeds every clean sample forward and averages the loss.
func (m *MLP) meanLoss(data Dataset, batchSize int) (float64, error) {
	total := 0.0
	for i := range data.Inputs {
		x, err := Reshape(data.Inputs[i], batchSize)
		if err != nil {
			return 0, err
		}
		y, err := Reshape(data.Target(i), batchSize)
		if err != nil {
			return 0, err
		}
		if _, err := m.Feedforward(x, nil); err != nil {
			return 0, err
		}
		loss, err := m.EvaluateLoss(y)
		if err != nil {
			return 0, err
		}
		total += loss
	}
	return total / float64(data.Len()), nil
}

// Validate draws one random sample from test, feeds it forward without
// updating parameters and records test_loss / test_accuracy when they are
// listed in names.
//
// Samples of a test set without Outputs are compared against themselves.
// rec may be nil, in which case only the forward pass runs.
func (m *MLP) Validate(test Dataset, step int, rec Recorder, names []string, batchSize int, rng *rand.Rand) error {
	if test.Len() == 0 {
		return stateError("MLP.Validate", "empty test set")
	}
	if err := test.validate("MLP.Validate"); err != nil {
		return err
	}
	if rng == nil {
		rng = newRand()
	}

	i := rng.Intn(test.Len())
	x, err := Reshape(test.Inputs[i], batchSize)
	if err != nil {
		return fmt.Errorf("test sample %d input: %w", i, err)
	}
	y, err := Reshape(test.Target(i), batchSize)
	if err != nil {
		return fmt.Errorf("test sample %d output: %w", i, err)
	}
	if _, err := m.Feedforward(x, nil); err != nil {
		return fmt.Errorf("test sample %d: %w", i, err)
	}
	if rec == nil {
		return nil
	}

	if slices.Contains(names, metrics.TestLoss) {
		loss, err := m.EvaluateLoss(y)
		if err != nil {
			return err
		}
		if err := rec.Add(metrics.TestLoss, step, loss); err != nil {
			return err
		}
	}
	if slices.Contains(names, metrics.TestAccuracy) {
		acc, err := m.Accuracy(y)
		if err != nil {
			return err
		}
		if err := rec.Add(metrics.TestAccuracy, step, acc); err != nil {
			return err
		}
	}
	return nil
}
