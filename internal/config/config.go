// Package config loads MLP run configurations from YAML.
//
// A run file describes the architecture, the loss, the optimizer and the
// training loop settings:
//
//	input: 2
//	layers:
//	  - {units: 4, activation: tanh}
//	  - {units: 2, activation: sigmoid}
//	loss: mse
//	optimizer: {name: sgd, learning_rate: 0.5}
//	epochs: 2000
//	metrics: [train_loss, train_accuracy]
//
// Fields missing from the file keep the values of Default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/mlp/internal/metrics"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid run configuration")

// LayerSpec describes one dense layer.
type LayerSpec struct {
	Units      int    `yaml:"units"`
	Activation string `yaml:"activation"`
}

// OptimizerSpec selects and tunes the update rule shared by all layers.
type OptimizerSpec struct {
	Name         string  `yaml:"name"` // "sgd" or "adam"
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
}

// NoiseSpec selects an input corruption for denoising training.
type NoiseSpec struct {
	Kind   string  `yaml:"kind"`   // "gaussian" or "masking"
	Amount float64 `yaml:"amount"` // stddev or drop probability
}

// Run is a complete training run configuration.
type Run struct {
	Input      int           `yaml:"input"`
	Layers     []LayerSpec   `yaml:"layers"`
	Loss       string        `yaml:"loss"`
	HuberDelta float64       `yaml:"huber_delta"`
	Optimizer  OptimizerSpec `yaml:"optimizer"`

	Epochs          int      `yaml:"epochs"`
	BatchSize       int      `yaml:"batch_size"`
	Metrics         []string `yaml:"metrics"`
	SampleEvery     int      `yaml:"sample_every"`
	UpdateEvery     int      `yaml:"update_every"`
	AcceptableError float64  `yaml:"acceptable_error"`
	Shuffle         bool     `yaml:"shuffle"`
	Seed            int64    `yaml:"seed"`

	LogDir    string     `yaml:"log_dir"`
	Telemetry bool       `yaml:"telemetry"`
	Noise     *NoiseSpec `yaml:"noise,omitempty"`
}

// Default returns a 2-4-2 tanh/sigmoid network trained with plain SGD.
func Default() *Run {
	return &Run{
		Input: 2,
		Layers: []LayerSpec{
			{Units: 4, Activation: "tanh"},
			{Units: 2, Activation: "sigmoid"},
		},
		Loss:        "mse",
		Optimizer:   OptimizerSpec{Name: "sgd", LearningRate: 0.5},
		Epochs:      1000,
		BatchSize:   1,
		Metrics:     metrics.DefaultNames(),
		SampleEvery: nn.DefaultSampleEvery,
		UpdateEvery: 1,
		Seed:        1,
		LogDir:      ".",
	}
}

// Load reads and validates a run file.
func Load(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run file: %w", err)
	}
	defer f.Close()

	run, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return run, nil
}

// Parse decodes and validates a run configuration held in memory.
func Parse(data []byte) (*Run, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r on top of Default and validates the result.
// Unknown fields are rejected.
func Decode(r io.Reader) (*Run, error) {
	run := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(run); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode run file: %w", err)
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	return run, nil
}

// Validate checks dimensions, names and loop settings.
func (r *Run) Validate() error {
	if r.Input <= 0 {
		return fmt.Errorf("%w: input must be positive, got %d", ErrInvalid, r.Input)
	}
	if len(r.Layers) == 0 {
		return fmt.Errorf("%w: at least one layer is required", ErrInvalid)
	}
	for i, l := range r.Layers {
		if l.Units <= 0 {
			return fmt.Errorf("%w: layer %d: units must be positive, got %d", ErrInvalid, i, l.Units)
		}
		if _, err := nn.ActivationByName(l.Activation); err != nil {
			return fmt.Errorf("%w: layer %d: %v", ErrInvalid, i, err)
		}
	}
	if _, err := r.loss(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := optim.New(r.Optimizer.Name, r.Optimizer.LearningRate, r.Optimizer.Momentum); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if r.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalid, r.Epochs)
	}
	if r.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalid, r.BatchSize)
	}
	if r.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample_every must be positive, got %d", ErrInvalid, r.SampleEvery)
	}
	for _, name := range r.Metrics {
		if !metrics.IsKnown(name) {
			return fmt.Errorf("%w: unknown metric %q", ErrInvalid, name)
		}
	}
	if r.Noise != nil {
		if _, ok := nn.NoiseByName(r.Noise.Kind, r.Noise.Amount, nil); !ok {
			return fmt.Errorf("%w: unknown noise kind %q", ErrInvalid, r.Noise.Kind)
		}
	}
	return nil
}

func (r *Run) loss() (nn.Loss, error) {
	if r.Loss == "huber" && r.HuberDelta != 0 {
		return nn.Huber{Delta: r.HuberDelta}, nil
	}
	return nn.LossByName(r.Loss)
}

// BuildNetwork assembles the layers described by the run. All layers
// share one optimizer; weights are drawn from a source seeded with Seed.
func (r *Run) BuildNetwork() (*nn.MLP, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	opt, err := optim.New(r.Optimizer.Name, r.Optimizer.LearningRate, r.Optimizer.Momentum)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewSource(r.Seed))
	model := nn.NewMLP()
	in := r.Input
	for _, layer := range r.Layers {
		act, err := nn.ActivationByName(layer.Activation)
		if err != nil {
			return nil, err
		}
		model.AddLayer(nn.NewDense(in, layer.Units, act, nn.DenseConfig{Optimizer: opt, Rand: rng}))
		in = layer.Units
	}
	return model, nil
}

// TrainConfig converts the loop settings into an nn.TrainConfig. The test
// set is left for the caller.
func (r *Run) TrainConfig(logger *slog.Logger) (nn.TrainConfig, error) {
	loss, err := r.loss()
	if err != nil {
		return nn.TrainConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	//nolint:gosec // Shuffling and validation draws are not security-critical
	rng := rand.New(rand.NewSource(r.Seed + 1))
	config := nn.TrainConfig{
		Loss:            loss,
		Epochs:          r.Epochs,
		BatchSize:       r.BatchSize,
		Metrics:         append([]string(nil), r.Metrics...),
		LogDir:          r.LogDir,
		Telemetry:       r.Telemetry,
		SampleEvery:     r.SampleEvery,
		UpdateEvery:     r.UpdateEvery,
		AcceptableError: r.AcceptableError,
		Shuffle:         r.Shuffle,
		Rand:            rng,
		Logger:          logger,
	}
	if r.Noise != nil {
		noise, ok := nn.NoiseByName(r.Noise.Kind, r.Noise.Amount, rng)
		if !ok {
			return nn.TrainConfig{}, fmt.Errorf("%w: unknown noise kind %q", ErrInvalid, r.Noise.Kind)
		}
		config.Noise = noise
	}
	return config, nil
}
