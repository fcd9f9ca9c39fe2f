package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

func newTestBody(t *testing.T, mass float64) *rigid.Body {
	t.Helper()
	b, err := rigid.New(mass)
	if err != nil {
		t.Fatalf("rigid.New: %v", err)
	}
	return b
}

func TestDxdtGravity(t *testing.T) {
	b := newTestBody(t, 2.0)
	b.P = mgl64.Vec3{2, 0, 0}

	sys, err := NewSystem([]*rigid.Body{b}, NewGravity())
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	x, err := sys.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	xdot := make(dynamo.State, len(x))
	if err := sys.Dxdt(0, x, xdot); err != nil {
		t.Fatalf("Dxdt: %v", err)
	}

	// dx/dt = P/m
	if xdot[0] != 1.0 || xdot[1] != 0 || xdot[2] != 0 {
		t.Errorf("position derivative = %v", xdot[0:3])
	}
	// dR/dt = 0 with zero angular momentum
	for i := 3; i < 12; i++ {
		if xdot[i] != 0 {
			t.Errorf("rotation derivative element %d = %f", i, xdot[i])
		}
	}
	// dP/dt = m*g
	if math.Abs(xdot[13]-(-19.62)) > 1e-12 || xdot[12] != 0 || xdot[14] != 0 {
		t.Errorf("momentum derivative = %v", xdot[12:15])
	}
	// dL/dt = 0, gravity exerts no torque about the center of mass
	for i := 15; i < 18; i++ {
		if xdot[i] != 0 {
			t.Errorf("angular momentum derivative element %d = %f", i, xdot[i])
		}
	}
}

func TestDxdtRotationDerivative(t *testing.T) {
	b := newTestBody(t, 1.0)
	b.L = mgl64.Vec3{0, 0, 1} // identity inverse inertia: omega = L

	sys, _ := NewSystem([]*rigid.Body{b}, nil)
	x, _ := sys.Encode()
	xdot := make(dynamo.State, len(x))
	if err := sys.Dxdt(0, x, xdot); err != nil {
		t.Fatalf("Dxdt: %v", err)
	}

	want := rigid.Star(mgl64.Vec3{0, 0, 1}).Mul3(b.R)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			got := xdot[3+i*3+j]
			if math.Abs(got-want.At(i, j)) > 1e-15 {
				t.Errorf("dR[%d][%d] = %f, expected %f", i, j, got, want.At(i, j))
			}
		}
	}
}

func TestDxdtWorldFrameInertia(t *testing.T) {
	// A rotated body must use R·I⁻¹·Rᵀ, not the body-frame tensor.
	b := newTestBody(t, 1.0)
	b.InvInertiaBody = mgl64.Diag3(mgl64.Vec3{1, 2, 4})
	b.R = mgl64.Rotate3DZ(math.Pi / 2)
	b.L = mgl64.Vec3{1, 0, 0}

	w := b.AngularVelocity()
	want := b.InvInertiaWorld().Mul3x1(b.L)
	for i := 0; i < 3; i++ {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Errorf("omega[%d] = %f, expected %f", i, w[i], want[i])
		}
	}
	// After a 90° z-rotation the body x-axis holds the tensor's y entry.
	if math.Abs(w[0]-2.0) > 1e-12 {
		t.Errorf("rotated inertia not applied: omega = %v", w)
	}
}

func TestDxdtMalformed(t *testing.T) {
	b := newTestBody(t, 1.0)
	sys, _ := NewSystem([]*rigid.Body{b}, nil)

	xdot := make(dynamo.State, rigid.StateSize)

	if err := sys.Dxdt(0, make(dynamo.State, 17), xdot); !errors.Is(err, dynamo.ErrMalformedState) {
		t.Errorf("length 17: expected ErrMalformedState, got %v", err)
	}
	if err := sys.Dxdt(0, dynamo.State{}, xdot); !errors.Is(err, dynamo.ErrMalformedState) {
		t.Errorf("empty: expected ErrMalformedState, got %v", err)
	}
	if err := sys.Dxdt(0, make(dynamo.State, 36), make(dynamo.State, 36)); !errors.Is(err, dynamo.ErrMalformedState) {
		t.Errorf("body count mismatch: expected ErrMalformedState, got %v", err)
	}
	if err := sys.Dxdt(0, make(dynamo.State, 18), make(dynamo.State, 17)); !errors.Is(err, dynamo.ErrMalformedState) {
		t.Errorf("short xdot: expected ErrMalformedState, got %v", err)
	}
}

func TestForceAndTorqueExtendedLayout(t *testing.T) {
	b := newTestBody(t, 3.0)
	ext := make([]float64, rigid.ExtendedSize)

	if err := ForceAndTorque(0, b, NewGravity(), ext); err != nil {
		t.Fatalf("ForceAndTorque: %v", err)
	}
	if ext[rigid.ForceOffset] != 0 || math.Abs(ext[rigid.ForceOffset+1]-(-29.43)) > 1e-12 {
		t.Errorf("force slots = %v", ext[rigid.ForceOffset:rigid.ForceOffset+3])
	}
	for i := rigid.TorqueOffset; i < rigid.ExtendedSize; i++ {
		if ext[i] != 0 {
			t.Errorf("torque slot %d = %f", i, ext[i])
		}
	}

	if err := ForceAndTorque(0, b, NewGravity(), make([]float64, 18)); !errors.Is(err, dynamo.ErrShortBuffer) {
		t.Errorf("short ext: expected ErrShortBuffer, got %v", err)
	}
}

func TestForceStack(t *testing.T) {
	b := newTestBody(t, 1.0)
	b.X = mgl64.Vec3{0, 2, 0}

	stack := Stack{
		NewGravity(),
		Spring{Anchor: mgl64.Vec3{0, 0, 0}, Stiffness: 10, Rest: 1},
	}

	var force, torque mgl64.Vec3
	stack.Apply(0, b, &force, &torque)

	// Gravity -9.81 plus spring pull -10*(2-1) toward the anchor.
	if math.Abs(force[1]-(-19.81)) > 1e-12 {
		t.Errorf("stacked force = %v", force)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	a := newTestBody(t, 1.0)
	a.X = mgl64.Vec3{1, 2, 3}
	b := newTestBody(t, 2.0)
	b.P = mgl64.Vec3{-1, 0, 1}

	sys, _ := NewSystem([]*rigid.Body{a, b}, nil)
	x, err := sys.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(x) != 36 {
		t.Fatalf("encoded length = %d", len(x))
	}

	a.X = mgl64.Vec3{}
	b.P = mgl64.Vec3{}
	if err := sys.Decode(x); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.X != (mgl64.Vec3{1, 2, 3}) || b.P != (mgl64.Vec3{-1, 0, 1}) {
		t.Errorf("round trip lost state: a.X=%v b.P=%v", a.X, b.P)
	}
}
