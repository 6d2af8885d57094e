// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides update rules for training an MLP.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//
// # Basic Usage
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//	layer := nn.NewDense(784, 10, nn.Softmax{}, nn.DenseConfig{Optimizer: sgd})
//
// An optimizer keeps per-parameter state (velocities, moments), so a single
// instance can be shared by every layer of a network.
//
// # Optimizers
//
// SGD:
//
//	param = param - lr * gradient
//
// Adam:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.001})
package optim
