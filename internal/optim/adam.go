package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/mlp/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// The timestep t is tracked per parameter, since layers step their
// parameters independently.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	state map[*nn.Parameter]*adamState
}

type adamState struct {
	t int
	m *mat.Dense // First moment estimate
	v *mat.Dense // Second moment estimate
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		state: make(map[*nn.Parameter]*adamState),
	}
}

// Step applies the pending gradient of param.
//
// Parameters with no pending gradient are skipped.
func (a *Adam) Step(param *nn.Parameter) {
	grad := param.Grad()
	if grad == nil {
		return
	}

	st, exists := a.state[param]
	if !exists {
		r, c := grad.Dims()
		st = &adamState{m: mat.NewDense(r, c, nil), v: mat.NewDense(r, c, nil)}
		a.state[param] = st
	}
	st.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(st.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(st.t))

	value := param.Value()
	r, c := value.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			g := grad.At(i, j)
			m := a.beta1*st.m.At(i, j) + (1.0-a.beta1)*g
			v := a.beta2*st.v.At(i, j) + (1.0-a.beta2)*g*g
			st.m.Set(i, j, m)
			st.v.Set(i, j, v)

			mHat := m / biasCorrection1
			vHat := v / biasCorrection2
			value.Set(i, j, value.At(i, j)-a.lr*mHat/(math.Sqrt(vHat)+a.eps))
		}
	}
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}
