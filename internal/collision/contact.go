package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// Contact describes one touching point between two bodies. Body references
// are non-owning; bodies outlive contacts, which are rebuilt every step.
//
// By convention the normal points from B toward A. EdgeA and EdgeB carry
// the edge directions for edge/edge contacts; the impulse resolver handles
// the vertex/face case.
type Contact struct {
	A, B *rigid.Body

	Point  mgl64.Vec3 // world-space contact point
	Normal mgl64.Vec3 // outward normal of B's face

	EdgeA, EdgeB mgl64.Vec3
	VertexFace   bool
}

// Validate fails fast on programming-contract violations: missing body
// references, degenerate bodies, or a zero-length normal.
func (c *Contact) Validate() error {
	if c == nil || c.A == nil || c.B == nil {
		return dynamo.ErrDegenerateContact
	}
	if err := c.A.Validate(); err != nil {
		return err
	}
	if err := c.B.Validate(); err != nil {
		return err
	}
	if c.Normal.Len() < 1e-12 {
		return dynamo.ErrDegenerateContact
	}
	return nil
}

// PointVelocity is the velocity of a material point on a rigid body:
// v + ω × (p − x). Pure; the body is not mutated.
func PointVelocity(b *rigid.Body, p mgl64.Vec3) mgl64.Vec3 {
	return b.Velocity().Add(b.AngularVelocity().Cross(p.Sub(b.X)))
}

// RelativeNormalVelocity is n · (ṗa − ṗb) at the contact point. Negative
// values mean the bodies approach along the normal.
func RelativeNormalVelocity(c *Contact) float64 {
	padot := PointVelocity(c.A, c.Point)
	pbdot := PointVelocity(c.B, c.Point)
	return c.Normal.Dot(padot.Sub(pbdot))
}
