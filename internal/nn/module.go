// Package nn implements the multi-layer perceptron training engine.
//
// This package provides:
//   - Layer interface and Dense: fully connected layer with its own activation
//   - Activations: Identity, Sigmoid, Tanh, ReLU, Softmax
//   - Loss functions: MSE, MAE, CrossEntropy, Huber
//   - MLP: ordered layer pipeline with feedforward, backpropagation and
//     the training loop (epochs, batching, noise injection, validation)
//   - Graph: read-only structural description of a network
//
// All tensors are gonum matrices laid out column-batched: a batch of n
// samples with d features is a d×n matrix, one sample per column.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is a single stage of an MLP.
//
// A layer caches the input, pre-activation and activation of its most
// recent Feedforward call; Backward reads that cache. Layers are not safe
// for concurrent use: two passes through the same layer at once corrupt
// the cache.
type Layer interface {
	// Feedforward computes the layer output for a [InputDim, n] input.
	//
	// Returns a [OutputDim, n] matrix, or a *ShapeError when the input
	// row count differs from InputDim.
	Feedforward(input *mat.Dense) (*mat.Dense, error)

	// Backward propagates grad, shaped like the last output, through the
	// layer and returns the gradient for the previous layer.
	//
	// When isOutputLayer is true grad already contains the activation
	// derivative; otherwise the layer multiplies it in. Parameter
	// gradients are applied only when updateParameters is true.
	Backward(grad *mat.Dense, isOutputLayer, updateParameters bool) (*mat.Dense, error)

	// SetBatchSize sizes batch-dependent buffers. Call it before the first
	// Feedforward of a training run.
	SetBatchSize(n int)

	// NumParameters returns the number of weight and bias scalars.
	NumParameters() int

	// InputDim returns the number of input features.
	InputDim() int

	// OutputDim returns the number of output units.
	OutputDim() int

	// Activation returns the layer's activation function.
	Activation() Activation

	// PreActivation returns z from the last Feedforward, or nil.
	PreActivation() *mat.Dense

	// Output returns the activation from the last Feedforward, or nil.
	Output() *mat.Dense

	// Gradients returns the weight and bias gradients computed by the last
	// Backward call, or nils.
	Gradients() (weight, bias *mat.Dense)

	// Accumulate adds parameter gradients to the pending update.
	Accumulate(weight, bias *mat.Dense) error

	// Apply hands the pending update to the optimizer and clears it.
	Apply()
}
