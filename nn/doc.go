// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a multi-layer perceptron and its building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Dense (fully connected, with its own activation)
//   - Activations: Identity, Sigmoid, Tanh, ReLU, Softmax
//   - Loss functions: MSE, MAE, CrossEntropy, Huber
//   - MLP: feedforward, backpropagation, training and validation
//   - Initialization: Xavier, Zeros, Ones
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/nn"
//	    "github.com/born-ml/mlp/optim"
//	)
//
//	func main() {
//	    sgd := optim.NewSGD(optim.SGDConfig{LR: 0.5})
//
//	    // Build a 2-4-2 network
//	    model := nn.NewMLP(
//	        nn.NewDense(2, 4, nn.Tanh{}, nn.DenseConfig{Optimizer: sgd}),
//	        nn.NewDense(4, 2, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd}),
//	    )
//
//	    // Train on the XOR truth table
//	    result, err := model.Train(data, nn.TrainConfig{
//	        Epochs:  5000,
//	        Metrics: []string{"train_loss", "train_accuracy"},
//	        LogDir:  "logs",
//	    })
//	}
//
// # Tensors
//
// All matrices are gonum *mat.Dense values laid out column-batched: a batch
// of n samples with d features is a d×n matrix. Dataset samples are flat
// slices of d·n values in row-major order; Reshape converts them.
//
// # Metrics
//
// Train writes every requested metric to <LogDir>/<metric>.txt. The first
// line of each file is the metric name and every further line is
// step,value. See package metrics for the recognised names.
package nn
