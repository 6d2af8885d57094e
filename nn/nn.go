// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/nn"
)

// Sentinel errors.
var (
	ErrShapeMismatch = nn.ErrShapeMismatch
	ErrInvalidState  = nn.ErrInvalidState
)

// ShapeError describes a dimension mismatch. It matches ErrShapeMismatch
// under errors.Is.
type ShapeError = nn.ShapeError

// Layer is a single stage of an MLP.
type Layer = nn.Layer

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and value.
func NewParameter(name string, value *mat.Dense) *Parameter {
	return nn.NewParameter(name, value)
}

// Optimizer applies a parameter's pending gradient to its value.
type Optimizer = nn.Optimizer

// Layers

// Dense represents a fully connected layer followed by an activation.
type Dense = nn.Dense

// DenseConfig holds the optimizer and random source of a Dense layer.
type DenseConfig = nn.DenseConfig

// NewDense creates a new dense layer with Xavier initialization.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//	layer := nn.NewDense(784, 128, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd})
func NewDense(inFeatures, outFeatures int, activation Activation, config DenseConfig) *Dense {
	return nn.NewDense(inFeatures, outFeatures, activation, config)
}

// Activations

// Activation is a non-linearity together with its derivative.
type Activation = nn.Activation

type (
	// Identity passes values through unchanged.
	Identity = nn.Identity
	// Sigmoid is the logistic function.
	Sigmoid = nn.Sigmoid
	// Tanh is the hyperbolic tangent.
	Tanh = nn.Tanh
	// ReLU is the rectified linear unit.
	ReLU = nn.ReLU
	// Softmax normalises every column into a probability distribution.
	Softmax = nn.Softmax
)

// ActivationByName returns the activation registered under name.
func ActivationByName(name string) (Activation, error) {
	return nn.ActivationByName(name)
}

// Loss functions

// Loss is a scalar error function together with its derivative.
type Loss = nn.Loss

type (
	// MSE is the mean squared error.
	MSE = nn.MSE
	// MAE is the mean absolute error.
	MAE = nn.MAE
	// CrossEntropy is categorical cross-entropy over probabilities.
	CrossEntropy = nn.CrossEntropy
	// Huber is quadratic near zero and linear beyond Delta.
	Huber = nn.Huber
)

// LossByName returns the loss registered under name.
func LossByName(name string) (Loss, error) {
	return nn.LossByName(name)
}

// Network

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// NewMLP creates a network from layers, in forward order.
//
// Example:
//
//	model := nn.NewMLP(hidden, output)
//	result, err := model.Train(data, nn.TrainConfig{Epochs: 1000})
func NewMLP(layers ...Layer) *MLP {
	return nn.NewMLP(layers...)
}

// Dataset is an ordered sequence of (input, expected output) pairs.
type Dataset = nn.Dataset

// Reshape turns a flat row-major sample into a column batch.
func Reshape(sample []float64, batchSize int) (*mat.Dense, error) {
	return nn.Reshape(sample, batchSize)
}

// Training

// TrainConfig holds configuration for MLP.Train.
type TrainConfig = nn.TrainConfig

// TrainResult summarises a training run.
type TrainResult = nn.TrainResult

// Recorder receives metric values.
type Recorder = nn.Recorder

// DefaultSampleEvery is the default step cadence of metric samples.
const DefaultSampleEvery = nn.DefaultSampleEvery

// NoiseFunc corrupts a training input.
type NoiseFunc = nn.NoiseFunc

// GaussianNoise adds N(0, stddev²) noise to every value.
func GaussianNoise(stddev float64, rng *rand.Rand) NoiseFunc {
	return nn.GaussianNoise(stddev, rng)
}

// MaskingNoise zeroes every value independently with probability p.
func MaskingNoise(p float64, rng *rand.Rand) NoiseFunc {
	return nn.MaskingNoise(p, rng)
}

// Graph

// Graph is a structural description of an MLP.
type Graph = nn.Graph

type (
	// Node is one neuron of a Graph.
	Node = nn.Node
	// Edge connects neurons of consecutive layers.
	Edge = nn.Edge
	// NodeKind categorises a node.
	NodeKind = nn.NodeKind
)

// Node categories.
const (
	NodeInput  = nn.NodeInput
	NodeHidden = nn.NodeHidden
	NodeOutput = nn.NodeOutput
)

// Initialization

// Xavier returns a [fanOut, fanIn] matrix drawn from the Glorot uniform
// distribution.
func Xavier(fanIn, fanOut int, rng *rand.Rand) *mat.Dense {
	return nn.Xavier(fanIn, fanOut, rng)
}

// Zeros creates a rows×cols matrix filled with zeros.
func Zeros(rows, cols int) *mat.Dense {
	return nn.Zeros(rows, cols)
}

// Ones creates a rows×cols matrix filled with ones.
func Ones(rows, cols int) *mat.Dense {
	return nn.Ones(rows, cols)
}
