package integrators

import "github.com/san-kum/rigidsim/internal/dynamo"

// timeEps absorbs floating-point rounding when checking whether another
// whole step still fits in the interval.
const timeEps = 1e-14

// Euler is the explicit first-order method: x += h*f(t, x).
// Local error O(h^2), global O(h).
type Euler struct {
	h    float64
	xdot dynamo.State
}

func NewEuler(h float64) (*Euler, error) {
	if h <= 0 {
		return nil, dynamo.ErrStepSize
	}
	return &Euler{h: h}, nil
}

func (e *Euler) SetStepSize(h float64) error {
	if h <= 0 {
		return dynamo.ErrStepSize
	}
	e.h = h
	return nil
}

func (e *Euler) StepSize() float64 { return e.h }

func (e *Euler) Advance(x0 dynamo.State, t0, t1 float64, dxdt dynamo.DerivFunc) (dynamo.State, float64, error) {
	if len(x0) == 0 {
		return nil, 0, dynamo.ErrEmptyState
	}
	if t1 <= t0 {
		return nil, 0, dynamo.ErrBadInterval
	}

	n := len(x0)
	if len(e.xdot) != n {
		e.xdot = make(dynamo.State, n)
	}

	x := x0.Clone()
	t := t0
	for t+e.h <= t1+timeEps {
		if err := dxdt(t, x, e.xdot); err != nil {
			return nil, 0, err
		}
		for i := 0; i < n; i++ {
			x[i] += e.h * e.xdot[i]
		}
		t += e.h
	}

	return x, t1 - t, nil
}
