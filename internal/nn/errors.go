package nn

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by layers and networks.
var (
	// ErrShapeMismatch reports a tensor whose dimensions disagree with what a
	// layer, loss or dataset declares. Shape errors are detected lazily, at
	// the first evaluate or train call, never when a layer is added.
	ErrShapeMismatch = errors.New("nn: shape mismatch")

	// ErrInvalidState reports an operation that depends on state that has
	// not been produced yet, such as Backward before Feedforward or a loss
	// query before a loss function was bound.
	ErrInvalidState = errors.New("nn: invalid state")
)

// ShapeError describes a dimension mismatch detected by an operation.
//
// ShapeError matches ErrShapeMismatch under errors.Is:
//
//	if errors.Is(err, nn.ErrShapeMismatch) { ... }
type ShapeError struct {
	Op       string // Operation that detected the mismatch (e.g. "Dense.Feedforward")
	Expected string // Human readable expected dimensions
	Actual   string // Human readable actual dimensions
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: expected %s, got %s", e.Op, e.Expected, e.Actual)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

func dims(r, c int) string {
	return fmt.Sprintf("%dx%d", r, c)
}

func stateError(op, msg string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidState, msg)
}
