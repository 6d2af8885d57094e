// Package dataset provides small in-memory datasets for exercising the MLP.
//
// Classification targets are one-hot: truth tables map false to [1, 0]
// and true to [0, 1], so accuracy can be measured by argmax.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/mlp/internal/nn"
)

var (
	falseClass = []float64{1, 0}
	trueClass  = []float64{0, 1}
)

func truthTable(op func(a, b bool) bool) nn.Dataset {
	var d nn.Dataset
	for _, in := range [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		d.Inputs = append(d.Inputs, []float64{in[0], in[1]})
		target := falseClass
		if op(in[0] == 1, in[1] == 1) {
			target = trueClass
		}
		d.Outputs = append(d.Outputs, append([]float64(nil), target...))
	}
	return d
}

// AND returns the logical AND truth table.
func AND() nn.Dataset {
	return truthTable(func(a, b bool) bool { return a && b })
}

// OR returns the logical OR truth table.
func OR() nn.Dataset {
	return truthTable(func(a, b bool) bool { return a || b })
}

// XOR returns the logical XOR truth table. It is not linearly separable
// and needs a hidden layer.
func XOR() nn.Dataset {
	return truthTable(func(a, b bool) bool { return a != b })
}

// OneHot returns the n one-hot vectors of length n, each its own target.
// It is the usual toy set for autoencoders.
func OneHot(n int) nn.Dataset {
	var d nn.Dataset
	for i := 0; i < n; i++ {
		v := make([]float64, n)
		v[i] = 1
		d.Inputs = append(d.Inputs, v)
		d.Outputs = append(d.Outputs, append([]float64(nil), v...))
	}
	return d
}

// ByName returns a built-in dataset: "and", "or", "xor" or "onehot<n>"
// (e.g. "onehot8").
func ByName(name string) (nn.Dataset, error) {
	switch name {
	case "and":
		return AND(), nil
	case "or":
		return OR(), nil
	case "xor":
		return XOR(), nil
	}
	if rest, ok := strings.CutPrefix(name, "onehot"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return nn.Dataset{}, fmt.Errorf("dataset: invalid one-hot size in %q", name)
		}
		return OneHot(n), nil
	}
	return nn.Dataset{}, fmt.Errorf("dataset: unknown dataset %q", name)
}

// Batch groups consecutive samples into column batches of batchSize.
//
// Sample k of a group becomes column k of the batch, laid out row-major as
// nn.Reshape expects. The number of samples must be a multiple of
// batchSize.
func Batch(d nn.Dataset, batchSize int) (nn.Dataset, error) {
	if batchSize <= 0 || d.Len()%batchSize != 0 {
		return nn.Dataset{}, fmt.Errorf("dataset: %d samples do not split into batches of %d: %w",
			d.Len(), batchSize, nn.ErrShapeMismatch)
	}
	var out nn.Dataset
	for start := 0; start < d.Len(); start += batchSize {
		in, err := interleave(d.Inputs[start : start+batchSize])
		if err != nil {
			return nn.Dataset{}, err
		}
		out.Inputs = append(out.Inputs, in)
		if d.Outputs != nil {
			target, err := interleave(d.Outputs[start : start+batchSize])
			if err != nil {
				return nn.Dataset{}, err
			}
			out.Outputs = append(out.Outputs, target)
		}
	}
	return out, nil
}

func interleave(samples [][]float64) ([]float64, error) {
	dim := len(samples[0])
	n := len(samples)
	flat := make([]float64, dim*n)
	for k, s := range samples {
		if len(s) != dim {
			return nil, fmt.Errorf("dataset: sample of %d values in a batch of %d-value samples: %w",
				len(s), dim, nn.ErrShapeMismatch)
		}
		for i, v := range s {
			flat[i*n+k] = v
		}
	}
	return flat, nil
}

// Split moves the trailing fraction of d into a second dataset, typically
// for validation. Samples are not copied.
func Split(d nn.Dataset, fraction float64) (train, test nn.Dataset) {
	cut := d.Len() - int(float64(d.Len())*fraction)
	train.Inputs, test.Inputs = d.Inputs[:cut], d.Inputs[cut:]
	if d.Outputs != nil {
		train.Outputs, test.Outputs = d.Outputs[:cut], d.Outputs[cut:]
	}
	return train, test
}
