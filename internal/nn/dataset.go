package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered sequence of (input, expected output) pairs.
//
// Inputs[i] and Outputs[i] are index-aligned flat samples. A sample holds
// dim×batch_size values laid out row-major, so Reshape turns it into a
// [dim, batch_size] column batch. For batch size 1 a sample is simply the
// feature vector.
//
// A test set may leave Outputs nil, in which case every input is its own
// target (autoencoder validation).
type Dataset struct {
	Inputs  [][]float64
	Outputs [][]float64
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Inputs)
}

// Target returns the expected output of sample i.
func (d Dataset) Target(i int) []float64 {
	if d.Outputs == nil {
		return d.Inputs[i]
	}
	return d.Outputs[i]
}

// validate checks that inputs and outputs are index-aligned.
func (d Dataset) validate(op string) error {
	if d.Outputs != nil && len(d.Outputs) != len(d.Inputs) {
		return &ShapeError{
			Op:       op,
			Expected: fmt.Sprintf("%d outputs", len(d.Inputs)),
			Actual:   fmt.Sprintf("%d outputs", len(d.Outputs)),
		}
	}
	return nil
}

// Reshape turns a flat row-major sample into a [len/batchSize, batchSize]
// column batch. The sample is copied.
//
// Returns a *ShapeError if the sample is empty or its length is not a
// multiple of batchSize.
func Reshape(sample []float64, batchSize int) (*mat.Dense, error) {
	if batchSize <= 0 || len(sample) == 0 || len(sample)%batchSize != 0 {
		return nil, &ShapeError{
			Op:       "Reshape",
			Expected: fmt.Sprintf("a non-empty multiple of batch size %d", batchSize),
			Actual:   fmt.Sprintf("%d values", len(sample)),
		}
	}
	data := make([]float64, len(sample))
	copy(data, sample)
	return mat.NewDense(len(sample)/batchSize, batchSize, data), nil
}
