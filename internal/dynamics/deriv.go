package dynamics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// ForceAndTorque runs the force-evaluation pass for one body, writing the
// accumulated force and torque into the scratch slots of the extended
// 24-scalar layout (offsets 18-23).
func ForceAndTorque(t float64, b *rigid.Body, f Force, ext []float64) error {
	if b == nil {
		return dynamo.ErrDegenerateBody
	}
	if len(ext) < rigid.ExtendedSize {
		return fmt.Errorf("%w: extended layout needs %d scalars, have %d",
			dynamo.ErrShortBuffer, rigid.ExtendedSize, len(ext))
	}

	var force, torque mgl64.Vec3
	if f != nil {
		f.Apply(t, b, &force, &torque)
	}

	ext[rigid.ForceOffset] = force[0]
	ext[rigid.ForceOffset+1] = force[1]
	ext[rigid.ForceOffset+2] = force[2]
	ext[rigid.TorqueOffset] = torque[0]
	ext[rigid.TorqueOffset+1] = torque[1]
	ext[rigid.TorqueOffset+2] = torque[2]
	return nil
}

// DdtState writes the derivative of one body block into xdot at offset:
//
//	dx/dt = v = P/m
//	dR/dt = Star(ω) · R,  ω = I⁻¹(t)·L
//	dP/dt = F
//	dL/dt = τ
func DdtState(b *rigid.Body, force, torque mgl64.Vec3, xdot []float64, offset int) error {
	if b == nil {
		return dynamo.ErrDegenerateBody
	}
	if offset < 0 || len(xdot) < offset+rigid.StateSize {
		return fmt.Errorf("%w: need %d scalars at offset %d, have %d",
			dynamo.ErrShortBuffer, rigid.StateSize, offset, len(xdot))
	}

	v := b.Velocity()
	dR := rigid.Star(b.AngularVelocity()).Mul3(b.R)

	idx := offset
	xdot[idx] = v[0]
	xdot[idx+1] = v[1]
	xdot[idx+2] = v[2]
	idx += 3

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			xdot[idx] = dR.At(i, j)
			idx++
		}
	}

	xdot[idx] = force[0]
	xdot[idx+1] = force[1]
	xdot[idx+2] = force[2]
	idx += 3

	xdot[idx] = torque[0]
	xdot[idx+1] = torque[1]
	xdot[idx+2] = torque[2]
	return nil
}

// System binds a set of bodies to a force law and exposes the multi-body
// derivative function the integrators consume. Body i occupies the flat
// block starting at i*rigid.StateSize.
type System struct {
	Bodies []*rigid.Body
	Forces Force

	ext  []float64
	work rigid.Body
}

func NewSystem(bodies []*rigid.Body, forces Force) (*System, error) {
	if len(bodies) == 0 {
		return nil, dynamo.ErrEmptyState
	}
	for _, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}
	return &System{
		Bodies: bodies,
		Forces: forces,
		ext:    make([]float64, rigid.ExtendedSize),
	}, nil
}

// Dim is the flat state dimension, 18 scalars per body.
func (s *System) Dim() int {
	return len(s.Bodies) * rigid.StateSize
}

// Encode packs every body into a fresh flat state vector.
func (s *System) Encode() (dynamo.State, error) {
	x := make(dynamo.State, s.Dim())
	for i, b := range s.Bodies {
		if err := rigid.StateToArray(b, x, i*rigid.StateSize); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Decode unpacks a flat state vector into the bodies, overwriting their
// positions, orientations, and momenta.
func (s *System) Decode(x dynamo.State) error {
	if err := s.checkLen(x); err != nil {
		return err
	}
	for i, b := range s.Bodies {
		if err := rigid.ArrayToState(x, b, i*rigid.StateSize); err != nil {
			return err
		}
	}
	return nil
}

// Dxdt is the top-level derivative function. For each body block it runs
// the force pass and the per-body derivative, using a scratch body so the
// canonical bodies are never mutated by intermediate integrator stages.
// Malformed vector lengths are an error, never a silent truncation.
func (s *System) Dxdt(t float64, x, xdot dynamo.State) error {
	if err := s.checkLen(x); err != nil {
		return err
	}
	if len(xdot) != len(x) {
		return fmt.Errorf("%w: xdot length %d, state length %d",
			dynamo.ErrMalformedState, len(xdot), len(x))
	}

	for i, b := range s.Bodies {
		s.work = *b
		off := i * rigid.StateSize
		if err := rigid.ArrayToState(x, &s.work, off); err != nil {
			return err
		}
		if err := ForceAndTorque(t, &s.work, s.Forces, s.ext); err != nil {
			return err
		}
		force := mgl64.Vec3{s.ext[rigid.ForceOffset], s.ext[rigid.ForceOffset+1], s.ext[rigid.ForceOffset+2]}
		torque := mgl64.Vec3{s.ext[rigid.TorqueOffset], s.ext[rigid.TorqueOffset+1], s.ext[rigid.TorqueOffset+2]}
		if err := DdtState(&s.work, force, torque, xdot, off); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) checkLen(x dynamo.State) error {
	if len(x) == 0 || len(x)%rigid.StateSize != 0 {
		return fmt.Errorf("%w: length %d", dynamo.ErrMalformedState, len(x))
	}
	if len(x) != s.Dim() {
		return fmt.Errorf("%w: %d bodies need %d scalars, got %d",
			dynamo.ErrMalformedState, len(s.Bodies), s.Dim(), len(x))
	}
	return nil
}
