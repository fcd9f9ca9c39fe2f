package integrators

import "github.com/san-kum/rigidsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. Four derivative
// evaluations per step; global error O(h^4).
type RK4 struct {
	h              float64
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4(h float64) (*RK4, error) {
	if h <= 0 {
		return nil, dynamo.ErrStepSize
	}
	return &RK4{h: h}, nil
}

func (r *RK4) SetStepSize(h float64) error {
	if h <= 0 {
		return dynamo.ErrStepSize
	}
	r.h = h
	return nil
}

func (r *RK4) StepSize() float64 { return r.h }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Advance(x0 dynamo.State, t0, t1 float64, dxdt dynamo.DerivFunc) (dynamo.State, float64, error) {
	if len(x0) == 0 {
		return nil, 0, dynamo.ErrEmptyState
	}
	if t1 <= t0 {
		return nil, 0, dynamo.ErrBadInterval
	}

	n := len(x0)
	r.ensureScratch(n)

	x := x0.Clone()
	t := t0
	h := r.h

	for t+h <= t1+timeEps {
		// k1 = f(t, x)
		if err := dxdt(t, x, r.k1); err != nil {
			return nil, 0, err
		}

		// k2 = f(t + h/2, x + h*k1/2)
		for i := 0; i < n; i++ {
			r.scratch[i] = x[i] + 0.5*h*r.k1[i]
		}
		if err := dxdt(t+0.5*h, r.scratch, r.k2); err != nil {
			return nil, 0, err
		}

		// k3 = f(t + h/2, x + h*k2/2)
		for i := 0; i < n; i++ {
			r.scratch[i] = x[i] + 0.5*h*r.k2[i]
		}
		if err := dxdt(t+0.5*h, r.scratch, r.k3); err != nil {
			return nil, 0, err
		}

		// k4 = f(t + h, x + h*k3)
		for i := 0; i < n; i++ {
			r.scratch[i] = x[i] + h*r.k3[i]
		}
		if err := dxdt(t+h, r.scratch, r.k4); err != nil {
			return nil, 0, err
		}

		h6 := h / 6.0
		for i := 0; i < n; i++ {
			x[i] += h6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
		}
		t += h
	}

	return x, t1 - t, nil
}
