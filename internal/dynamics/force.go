package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/rigid"
)

// Force evaluates an external force law at time t, accumulating into the
// given force and torque. Implementations must not mutate the body.
type Force interface {
	Apply(t float64, b *rigid.Body, force, torque *mgl64.Vec3)
}

// Gravity applies a constant acceleration, F = m*a. Static bodies are
// unaffected.
type Gravity struct {
	Accel mgl64.Vec3
}

// NewGravity returns standard downward gravity along -Y.
func NewGravity() Gravity {
	return Gravity{Accel: mgl64.Vec3{0, -9.81, 0}}
}

func (g Gravity) Apply(t float64, b *rigid.Body, force, torque *mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	*force = force.Add(g.Accel.Mul(b.Mass))
}

// Spring pulls the center of mass toward an anchor point with a linear
// restoring force.
type Spring struct {
	Anchor    mgl64.Vec3
	Stiffness float64
	Rest      float64
}

func (s Spring) Apply(t float64, b *rigid.Body, force, torque *mgl64.Vec3) {
	d := b.X.Sub(s.Anchor)
	length := d.Len()
	if length < 1e-12 {
		return
	}
	*force = force.Add(d.Mul(-s.Stiffness * (length - s.Rest) / length))
}

// Damping applies velocity-proportional drag to both linear and angular
// motion.
type Damping struct {
	Linear  float64
	Angular float64
}

func (d Damping) Apply(t float64, b *rigid.Body, force, torque *mgl64.Vec3) {
	if b.IsStatic() {
		return
	}
	*force = force.Add(b.Velocity().Mul(-d.Linear))
	*torque = torque.Add(b.AngularVelocity().Mul(-d.Angular))
}

// Stack sums several force laws into one accumulator pass.
type Stack []Force

func (s Stack) Apply(t float64, b *rigid.Body, force, torque *mgl64.Vec3) {
	for _, f := range s {
		f.Apply(t, b, force, torque)
	}
}
