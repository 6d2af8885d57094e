// Package optim implements update rules for MLP parameters.
//
// This package provides:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//
// Both satisfy nn.Optimizer. Layers call Step on a parameter once its
// pending gradient should be applied; per-parameter state (velocities,
// moments) is keyed by the parameter, so one optimizer may be shared by
// every layer of a network.
//
// Example usage:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//	hidden := nn.NewDense(2, 4, nn.Tanh{}, nn.DenseConfig{Optimizer: sgd})
//	output := nn.NewDense(4, 1, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd})
package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
)

// New returns the optimizer registered under name ("sgd" or "adam").
//
// momentum applies to SGD only.
func New(name string, lr, momentum float64) (nn.Optimizer, error) {
	switch name {
	case "", "sgd":
		return NewSGD(SGDConfig{LR: lr, Momentum: momentum}), nil
	case "adam":
		return NewAdam(AdamConfig{LR: lr}), nil
	default:
		return nil, fmt.Errorf("optim: unknown optimizer %q", name)
	}
}
