package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// Body is the simulation state of one rigid body, following the
// position/rotation/momentum representation of physically based modeling.
// Linear and angular velocity are derived quantities, recomputed on demand
// from the momenta; they are never stored.
type Body struct {
	Mass float64
	X    mgl64.Vec3 // position of the center of mass
	R    mgl64.Mat3 // orientation (world from body)
	P    mgl64.Vec3 // linear momentum
	L    mgl64.Vec3 // angular momentum

	// InvInertiaBody is the body-frame inverse inertia tensor. The
	// world-frame tensor is derived from it and the current orientation.
	InvInertiaBody mgl64.Mat3
}

// New returns a dynamic body with identity orientation and unit inverse
// inertia. Callers with real geometry should replace InvInertiaBody via
// InertiaTensor and InverseInertia.
func New(mass float64) (*Body, error) {
	if mass <= 0 || math.IsNaN(mass) {
		return nil, dynamo.ErrDegenerateBody
	}
	return &Body{
		Mass:           mass,
		R:              mgl64.Ident3(),
		InvInertiaBody: mgl64.Ident3(),
	}, nil
}

// NewStatic returns an immovable body: infinite mass and zero inverse
// inertia, so its terms vanish from the impulse denominator.
func NewStatic() *Body {
	return &Body{
		Mass: math.Inf(1),
		R:    mgl64.Ident3(),
	}
}

func (b *Body) IsStatic() bool {
	return math.IsInf(b.Mass, 1)
}

// Velocity is the derived linear velocity P/m. Zero for static bodies.
func (b *Body) Velocity() mgl64.Vec3 {
	return b.P.Mul(1.0 / b.Mass)
}

// InvInertiaWorld rotates the body-frame inverse inertia into world space:
// I⁻¹(t) = R(t) · I⁻¹_body · R(t)ᵀ.
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	return b.R.Mul3(b.InvInertiaBody).Mul3(b.R.Transpose())
}

// AngularVelocity is the derived angular velocity ω = I⁻¹(t) · L.
func (b *Body) AngularVelocity() mgl64.Vec3 {
	return b.InvInertiaWorld().Mul3x1(b.L)
}

// Validate reports degenerate configurations: non-positive mass or
// non-finite state. Infinite mass is valid (static body).
func (b *Body) Validate() error {
	if b == nil {
		return dynamo.ErrDegenerateBody
	}
	if math.IsNaN(b.Mass) || b.Mass <= 0 {
		return dynamo.ErrDegenerateBody
	}
	for i := 0; i < 3; i++ {
		if !finite(b.X[i]) || !finite(b.P[i]) || !finite(b.L[i]) {
			return dynamo.ErrDegenerateBody
		}
	}
	for i := range b.R {
		if !finite(b.R[i]) || !finite(b.InvInertiaBody[i]) {
			return dynamo.ErrDegenerateBody
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
