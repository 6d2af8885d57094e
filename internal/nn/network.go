package nn

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MLP is a multi-layer perceptron: an ordered pipeline of layers.
//
// Each layer's output becomes the next layer's input. The network does not
// validate dimensions when layers are added; a mismatch surfaces as a
// *ShapeError naming the layer at the first Feedforward.
//
// Example:
//
//	sgd := optim.NewSGD(optim.SGDConfig{LR: 0.5})
//	model := nn.NewMLP(
//	    nn.NewDense(2, 4, nn.Tanh{}, nn.DenseConfig{Optimizer: sgd}),
//	    nn.NewDense(4, 2, nn.Sigmoid{}, nn.DenseConfig{Optimizer: sgd}),
//	)
//
//	result, err := model.Train(data, nn.TrainConfig{Epochs: 1000})
type MLP struct {
	layers []Layer
	loss   Loss // bound by SetLoss or Train
}

// NewMLP creates a network from layers, in forward order.
func NewMLP(layers ...Layer) *MLP {
	m := &MLP{}
	for _, l := range layers {
		m.AddLayer(l)
	}
	return m
}

// AddLayer appends a layer to the pipeline.
//
// The caller is responsible for dimension compatibility with the previous
// layer.
func (m *MLP) AddLayer(layer Layer) {
	m.layers = append(m.layers, layer)
}

// Layers returns the layers in forward order.
func (m *MLP) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Len returns the number of layers.
func (m *MLP) Len() int {
	return len(m.layers)
}

// SetLoss binds the loss used by Backpropagate and EvaluateLoss.
func (m *MLP) SetLoss(loss Loss) {
	m.loss = loss
}

// LossFunc returns the bound loss, or nil before training.
func (m *MLP) LossFunc() Loss {
	return m.loss
}

func (m *MLP) lastLayer(op string) (Layer, error) {
	if len(m.layers) == 0 {
		return nil, stateError(op, "network has no layers")
	}
	return m.layers[len(m.layers)-1], nil
}

// Feedforward runs input through every layer in order.
//
// If history is not nil, every intermediate output (including the final
// one) is appended to it.
//
// Input shape: [input_dim, batch_size]
// Output shape: [output_dim, batch_size]
func (m *MLP) Feedforward(input *mat.Dense, history *[]*mat.Dense) (*mat.Dense, error) {
	if _, err := m.lastLayer("MLP.Feedforward"); err != nil {
		return nil, err
	}

	output := input
	for i, layer := range m.layers {
		next, err := layer.Feedforward(output)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		output = next
		if history != nil {
			*history = append(*history, output)
		}
	}
	return output, nil
}

// Predict feeds a single flat sample through the network and returns the
// output vector.
//
// Prediction does not touch parameters, so calling Predict twice with the
// same input returns identical outputs.
func (m *MLP) Predict(sample []float64) ([]float64, error) {
	input, err := Reshape(sample, 1)
	if err != nil {
		return nil, err
	}
	output, err := m.Feedforward(input, nil)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, output), nil
}

// Backpropagate walks the layers in reverse and propagates a gradient.
//
// With useLoss, output is the expected output of the last Feedforward and
// the starting gradient is
//
//	loss.Derivative(expected, a_L) ⊙ f_L'(z_L)
//
// Only the output layer is told isOutputLayer. Without useLoss, output is
// itself the gradient with respect to the final activation and every layer
// multiplies in its own activation derivative.
func (m *MLP) Backpropagate(output *mat.Dense, useLoss, updateParameters bool) error {
	last, err := m.lastLayer("MLP.Backpropagate")
	if err != nil {
		return err
	}

	grad := output
	if useLoss {
		if m.loss == nil {
			return stateError("MLP.Backpropagate", "no loss function bound")
		}
		actual := last.Output()
		if actual == nil {
			return stateError("MLP.Backpropagate", "no forward pass recorded")
		}
		if err := sameShape("MLP.Backpropagate", actual, output); err != nil {
			return err
		}
		var start mat.Dense
		start.MulElem(m.loss.Derivative(output, actual), last.Activation().Derivative(last.PreActivation()))
		grad = &start
	}

	isOutputLayer := useLoss
	for i := len(m.layers) - 1; i >= 0; i-- {
		grad, err = m.layers[i].Backward(grad, isOutputLayer, updateParameters)
		if err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		isOutputLayer = false
	}
	return nil
}

// EvaluateLoss returns the bound loss of the last forward pass against
// expected.
func (m *MLP) EvaluateLoss(expected *mat.Dense) (float64, error) {
	if m.loss == nil {
		return 0, stateError("MLP.EvaluateLoss", "no loss function bound")
	}
	actual, err := m.lastOutput("MLP.EvaluateLoss", expected)
	if err != nil {
		return 0, err
	}
	return m.loss.Apply(expected, actual), nil
}

// Accuracy returns the percentage of columns whose argmax in the last
// forward pass matches the argmax of expected.
func (m *MLP) Accuracy(expected *mat.Dense) (float64, error) {
	actual, err := m.lastOutput("MLP.Accuracy", expected)
	if err != nil {
		return 0, err
	}

	rows, cols := actual.Dims()
	gotCol := make([]float64, rows)
	wantCol := make([]float64, rows)
	wrong := 0
	for j := 0; j < cols; j++ {
		mat.Col(gotCol, j, actual)
		mat.Col(wantCol, j, expected)
		if floats.MaxIdx(gotCol) != floats.MaxIdx(wantCol) {
			wrong++
		}
	}
	return (1 - float64(wrong)/float64(cols)) * 100, nil
}

func (m *MLP) lastOutput(op string, expected *mat.Dense) (*mat.Dense, error) {
	last, err := m.lastLayer(op)
	if err != nil {
		return nil, err
	}
	actual := last.Output()
	if actual == nil {
		return nil, stateError(op, "no forward pass recorded")
	}
	if err := sameShape(op, actual, expected); err != nil {
		return nil, err
	}
	return actual, nil
}

func sameShape(op string, actual, expected *mat.Dense) error {
	ar, ac := actual.Dims()
	er, ec := expected.Dims()
	if ar != er || ac != ec {
		return &ShapeError{Op: op, Expected: dims(ar, ac), Actual: dims(er, ec)}
	}
	return nil
}

// NumParameters returns the total number of weight and bias scalars.
func (m *MLP) NumParameters() int {
	total := 0
	for _, l := range m.layers {
		total += l.NumParameters()
	}
	return total
}

// String returns a human readable summary of the network.
func (m *MLP) String() string {
	var b strings.Builder
	rule := strings.Repeat("-", 20)
	fmt.Fprintf(&b, "%s MULTI LAYER PERCEPTRON (MLP) %s\n\n", rule, rule)
	fmt.Fprintf(&b, "HIDDEN LAYERS = %d\n", max(len(m.layers)-1, 0))
	fmt.Fprintf(&b, "TOTAL PARAMETERS = %d\n\n", m.NumParameters())
	for i, l := range m.layers {
		fmt.Fprintf(&b, " *** %d. Layer: ***\n", i+1)
		if s, ok := l.(fmt.Stringer); ok {
			fmt.Fprintf(&b, "%s\n", s)
		} else {
			fmt.Fprintf(&b, "%d -> %d\n", l.InputDim(), l.OutputDim())
		}
	}
	b.WriteString(strings.Repeat("-", 70))
	b.WriteString("\n")
	return b.String()
}
