package dynamo

import (
	"fmt"
	"math"
)

// State is a flat vector of scalars. For rigid-body simulation it holds one
// or more 18-scalar body blocks (position, rotation matrix, linear momentum,
// angular momentum), but the integrators treat it as an opaque vector of
// arbitrary dimension.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// DerivFunc computes the time derivative of a state vector, writing it into
// xdot. The caller sizes xdot to len(x). Implementations must not retain
// either slice.
type DerivFunc func(t float64, x State, xdot State) error

// Integrator advances a state vector over [t0, t1] in fixed steps.
//
// Advance takes as many whole steps of the current step size as fit in the
// interval and returns the state after the last full step together with the
// untaken remainder t1 - tFinal. It never takes a partial step: if the step
// size exceeds the interval, zero steps are taken and the full interval is
// returned as leftover.
type Integrator interface {
	Advance(x0 State, t0, t1 float64, dxdt DerivFunc) (State, float64, error)
	SetStepSize(h float64) error
	StepSize() float64
}

// Metric accumulates a scalar observation over a simulation run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer receives every committed frame of a simulation run.
type Observer interface {
	OnStep(x State, t float64)
}

// SimError records a recoverable condition raised during a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
