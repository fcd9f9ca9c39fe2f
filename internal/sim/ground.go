package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/rigid"
)

// GroundPlane generates vertex/face contacts against the horizontal plane
// y = Height for bodies treated as spheres of the given radius. This is a
// narrow-phase source for the demo scenes; broad-phase culling is out of
// scope.
type GroundPlane struct {
	Height float64
	Radius float64

	ground *rigid.Body
}

func NewGroundPlane(height, radius float64) *GroundPlane {
	ground := rigid.NewStatic()
	ground.X = mgl64.Vec3{0, height, 0}
	return &GroundPlane{
		Height: height,
		Radius: radius,
		ground: ground,
	}
}

func (g *GroundPlane) Contacts(bodies []*rigid.Body, t float64) []collision.Contact {
	var contacts []collision.Contact
	for _, b := range bodies {
		if b.IsStatic() {
			continue
		}
		if b.X[1]-g.Radius > g.Height {
			continue
		}
		contacts = append(contacts, collision.Contact{
			A:          b,
			B:          g.ground,
			Point:      mgl64.Vec3{b.X[0], b.X[1] - g.Radius, b.X[2]},
			Normal:     mgl64.Vec3{0, 1, 0},
			VertexFace: true,
		})
	}
	return contacts
}
