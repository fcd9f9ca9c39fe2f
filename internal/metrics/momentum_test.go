package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

func encode(t *testing.T, bodies ...*rigid.Body) dynamo.State {
	t.Helper()
	x := make(dynamo.State, len(bodies)*rigid.StateSize)
	for i, b := range bodies {
		if err := rigid.StateToArray(b, x, i*rigid.StateSize); err != nil {
			t.Fatalf("StateToArray: %v", err)
		}
	}
	return x
}

func TestLinearMomentumDrift(t *testing.T) {
	a, _ := rigid.New(1.0)
	a.P = mgl64.Vec3{1, 0, 0}
	b, _ := rigid.New(2.0)
	b.P = mgl64.Vec3{-1, 0, 0}

	m := NewLinearMomentumDrift()
	m.Observe(encode(t, a, b), 0)
	if m.Value() != 0 {
		t.Errorf("drift after first sample = %f", m.Value())
	}

	// Equal and opposite impulse exchange: total unchanged.
	a.P = a.P.Add(mgl64.Vec3{0, 3, 0})
	b.P = b.P.Sub(mgl64.Vec3{0, 3, 0})
	m.Observe(encode(t, a, b), 1)
	if m.Value() > 1e-12 {
		t.Errorf("conserved exchange reported drift %e", m.Value())
	}

	// One-sided momentum change must register.
	a.P = a.P.Add(mgl64.Vec3{0, 0, 2})
	m.Observe(encode(t, a, b), 2)
	if math.Abs(m.Value()-2.0) > 1e-12 {
		t.Errorf("expected drift 2.0, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("drift survives Reset")
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	a, _ := rigid.New(1.0)
	a.X = mgl64.Vec3{-1, 0, 0}
	a.P = mgl64.Vec3{1, 0, 0}
	b, _ := rigid.New(1.0)
	b.X = mgl64.Vec3{1, 0, 0}
	b.P = mgl64.Vec3{-1, 0, 0}

	m := NewAngularMomentumDrift()
	m.Observe(encode(t, a, b), 0)

	// Impulse applied at a shared contact point conserves total angular
	// momentum about the origin.
	impulse := mgl64.Vec3{-2, 0, 0}
	contact := mgl64.Vec3{0, 0, 0}
	a.P = a.P.Add(impulse)
	a.L = a.L.Add(contact.Sub(a.X).Cross(impulse))
	b.P = b.P.Sub(impulse)
	b.L = b.L.Sub(contact.Sub(b.X).Cross(impulse))

	m.Observe(encode(t, a, b), 1)
	if m.Value() > 1e-12 {
		t.Errorf("conserved impulse reported angular drift %e", m.Value())
	}
}

func TestKineticEnergy(t *testing.T) {
	a, _ := rigid.New(2.0)
	a.P = mgl64.Vec3{2, 0, 0}
	a.L = mgl64.Vec3{0, 2, 0}

	m := NewKineticEnergy([]*rigid.Body{a})
	m.Observe(encode(t, a), 0)

	// |P|^2/2m = 1, 0.5*L.omega = 2 with identity inverse inertia.
	if math.Abs(m.Value()-3.0) > 1e-12 {
		t.Errorf("kinetic energy = %f, expected 3.0", m.Value())
	}
}
