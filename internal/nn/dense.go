package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dense implements a fully connected layer with an activation.
//
// Performs the transformation: a = f(W·x + b)
// where:
//   - x is the input matrix with shape [in_features, batch_size]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1], broadcast over the batch
//   - a is the output matrix with shape [out_features, batch_size]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.1})
//	layer := nn.NewDense(784, 128, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd})
//
//	output, err := layer.Feedforward(input) // [784, 32] -> [128, 32]
type Dense struct {
	inFeatures  int
	outFeatures int
	activation  Activation
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features, 1]
	optimizer   Optimizer

	batchSize int
	ones      *mat.Dense // [batch_size, 1]

	input *mat.Dense // last input
	z     *mat.Dense // last pre-activation
	a     *mat.Dense // last activation

	weightGrad *mat.Dense
	biasGrad   *mat.Dense
}

// DenseConfig holds configuration for a Dense layer.
type DenseConfig struct {
	Optimizer Optimizer  // Update rule for weight and bias (required)
	Rand      *rand.Rand // Source for weight initialization (default: time-seeded)
}

// NewDense creates a new Dense layer.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output units
//   - activation: Activation applied to the pre-activation
//   - config: Optimizer and random source
//
// Panics if a dimension is not positive, activation is nil or the config
// has no optimizer.
func NewDense(inFeatures, outFeatures int, activation Activation, config DenseConfig) *Dense {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("NewDense: dimensions must be positive, got %d -> %d", inFeatures, outFeatures))
	}
	if activation == nil {
		panic("NewDense: activation is nil")
	}
	if config.Optimizer == nil {
		panic("NewDense: optimizer is nil")
	}
	if config.Rand == nil {
		config.Rand = newRand()
	}

	d := &Dense{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		activation:  activation,
		weight:      NewParameter("weight", Xavier(inFeatures, outFeatures, config.Rand)),
		bias:        NewParameter("bias", Zeros(outFeatures, 1)),
		optimizer:   config.Optimizer,
	}
	d.SetBatchSize(1)
	return d
}

// SetBatchSize sizes the ones column used to broadcast the bias over a
// batch and to reduce bias gradients.
func (d *Dense) SetBatchSize(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("Dense.SetBatchSize: batch size must be positive, got %d", n))
	}
	d.batchSize = n
	d.ones = Ones(n, 1)
}

// BatchSize returns the configured batch size.
func (d *Dense) BatchSize() int {
	return d.batchSize
}

// onesFor returns a ones column of length n, reusing the configured buffer
// when the batch matches.
func (d *Dense) onesFor(n int) *mat.Dense {
	if n == d.batchSize {
		return d.ones
	}
	return Ones(n, 1)
}

// Feedforward computes z = W·input + b and a = f(z).
//
// Input shape: [in_features, n]
// Output shape: [out_features, n]
//
// The input, z and a are kept for the next Backward call.
func (d *Dense) Feedforward(input *mat.Dense) (*mat.Dense, error) {
	rows, cols := input.Dims()
	if rows != d.inFeatures {
		return nil, &ShapeError{
			Op:       "Dense.Feedforward",
			Expected: fmt.Sprintf("%d input rows", d.inFeatures),
			Actual:   fmt.Sprintf("%d rows", rows),
		}
	}

	z := mat.NewDense(d.outFeatures, cols, nil)
	z.Mul(d.weight.Value(), input)

	var broadcast mat.Dense
	broadcast.Mul(d.bias.Value(), d.onesFor(cols).T())
	z.Add(z, &broadcast)

	d.input = mat.DenseCopyOf(input)
	d.z = z
	d.a = d.activation.Apply(z)
	return d.a, nil
}

// Backward computes this layer's delta, its parameter gradients and the
// gradient for the previous layer.
//
//	delta    = grad                  if isOutputLayer
//	delta    = grad ⊙ f'(z)          otherwise
//	dW       = delta · inputᵀ
//	db       = delta · 1
//	upstream = Wᵀ · delta
//
// upstream is computed with the weights in effect before any update.
// When updateParameters is false the gradients are only recorded and can
// be read with Gradients.
func (d *Dense) Backward(grad *mat.Dense, isOutputLayer, updateParameters bool) (*mat.Dense, error) {
	if d.z == nil {
		return nil, stateError("Dense.Backward", "no forward pass recorded")
	}
	_, cols := d.z.Dims()
	if r, c := grad.Dims(); r != d.outFeatures || c != cols {
		return nil, &ShapeError{
			Op:       "Dense.Backward",
			Expected: dims(d.outFeatures, cols),
			Actual:   dims(r, c),
		}
	}

	delta := grad
	if !isOutputLayer {
		var scaled mat.Dense
		scaled.MulElem(grad, d.activation.Derivative(d.z))
		delta = &scaled
	}

	var dW mat.Dense
	dW.Mul(delta, d.input.T())

	var db mat.Dense
	db.Mul(delta, d.onesFor(cols))

	var upstream mat.Dense
	upstream.Mul(d.weight.Value().T(), delta)

	d.weightGrad = &dW
	d.biasGrad = &db

	if updateParameters {
		if err := d.Accumulate(&dW, &db); err != nil {
			return nil, err
		}
		d.Apply()
	}

	return &upstream, nil
}

// Gradients returns the weight and bias gradients of the last Backward.
func (d *Dense) Gradients() (weight, bias *mat.Dense) {
	return d.weightGrad, d.biasGrad
}

// Accumulate adds weight and bias gradients to the pending update.
func (d *Dense) Accumulate(weight, bias *mat.Dense) error {
	if weight == nil || bias == nil {
		return stateError("Dense.Accumulate", "no gradients to accumulate")
	}
	if r, c := weight.Dims(); r != d.outFeatures || c != d.inFeatures {
		return &ShapeError{Op: "Dense.Accumulate", Expected: dims(d.outFeatures, d.inFeatures), Actual: dims(r, c)}
	}
	if r, c := bias.Dims(); r != d.outFeatures || c != 1 {
		return &ShapeError{Op: "Dense.Accumulate", Expected: dims(d.outFeatures, 1), Actual: dims(r, c)}
	}
	d.weight.Accumulate(weight)
	d.bias.Accumulate(bias)
	return nil
}

// Apply steps the optimizer on every parameter with a pending gradient and
// clears it. Apply with nothing pending is a no-op.
func (d *Dense) Apply() {
	for _, p := range d.Parameters() {
		if p.Grad() == nil {
			continue
		}
		d.optimizer.Step(p)
		p.ZeroGrad()
	}
}

// Parameters returns [weight, bias].
func (d *Dense) Parameters() []*Parameter {
	return []*Parameter{d.weight, d.bias}
}

// Weight returns the weight parameter.
func (d *Dense) Weight() *Parameter {
	return d.weight
}

// Bias returns the bias parameter.
func (d *Dense) Bias() *Parameter {
	return d.bias
}

// InputDim returns the number of input features.
func (d *Dense) InputDim() int {
	return d.inFeatures
}

// OutputDim returns the number of output units.
func (d *Dense) OutputDim() int {
	return d.outFeatures
}

// Activation returns the layer's activation.
func (d *Dense) Activation() Activation {
	return d.activation
}

// Input returns the input of the last Feedforward, or nil.
func (d *Dense) Input() *mat.Dense {
	return d.input
}

// PreActivation returns z of the last Feedforward, or nil.
func (d *Dense) PreActivation() *mat.Dense {
	return d.z
}

// Output returns a of the last Feedforward, or nil.
func (d *Dense) Output() *mat.Dense {
	return d.a
}

// NumParameters returns out·in + out.
func (d *Dense) NumParameters() int {
	return d.weight.Size() + d.bias.Size()
}

// String describes the layer.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense(%d -> %d, activation=%s, lr=%g, parameters=%d)",
		d.inFeatures, d.outFeatures, d.activation.Name(), d.optimizer.LR(), d.NumParameters())
}
