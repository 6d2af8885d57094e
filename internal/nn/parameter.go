package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable parameter in a neural network.
//
// A Parameter owns its value matrix and a pending gradient. Gradients are
// added to the pending gradient with Accumulate and consumed by an
// Optimizer, which applies them to the value and then clears them.
//
// Example:
//
//	weight := nn.NewParameter("weight", mat.NewDense(2, 3, nil))
//	weight.Accumulate(dW)
//	optimizer.Step(weight)
//	weight.ZeroGrad()
type Parameter struct {
	name  string     // Parameter name (e.g., "weight", "bias")
	value *mat.Dense // The parameter matrix
	grad  *mat.Dense // Pending gradient, nil when nothing is accumulated
}

// NewParameter creates a new trainable parameter wrapping value.
func NewParameter(name string, value *mat.Dense) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix. Optimizers update it in place.
func (p *Parameter) Value() *mat.Dense {
	return p.value
}

// Grad returns the pending gradient, or nil if none has been accumulated
// since the last ZeroGrad.
func (p *Parameter) Grad() *mat.Dense {
	return p.grad
}

// Accumulate adds g to the pending gradient.
//
// Panics if g's dimensions differ from the parameter's.
func (p *Parameter) Accumulate(g mat.Matrix) {
	if p.grad == nil {
		p.grad = mat.DenseCopyOf(g)
		return
	}
	p.grad.Add(p.grad, g)
}

// ZeroGrad clears the pending gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// Size returns the number of scalars held by the parameter.
func (p *Parameter) Size() int {
	r, c := p.value.Dims()
	return r * c
}

// Optimizer applies a parameter's pending gradient to its value.
//
// Implementations live in the optim package. Step must leave the pending
// gradient untouched; clearing it is the caller's job.
type Optimizer interface {
	// Step updates p.Value() from p.Grad(). A nil gradient is a no-op.
	Step(p *Parameter)

	// LR returns the current learning rate.
	LR() float64
}
