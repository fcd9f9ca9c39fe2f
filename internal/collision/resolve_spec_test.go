package collision_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/collision"
	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/rigid"
)

func newBody(mass float64, x, v mgl64.Vec3) *rigid.Body {
	b, err := rigid.New(mass)
	Expect(err).NotTo(HaveOccurred())
	b.X = x
	b.P = v.Mul(mass)
	return b
}

// Head-on pair one unit apart, touching at the origin. The normal points
// from B toward A.
func headOnContact(ma, mb, va, vb float64) collision.Contact {
	a := newBody(ma, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{va, 0, 0})
	b := newBody(mb, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{vb, 0, 0})
	return collision.Contact{
		A:          a,
		B:          b,
		Point:      mgl64.Vec3{0, 0, 0},
		Normal:     mgl64.Vec3{-1, 0, 0},
		VertexFace: true,
	}
}

func totalLinearMomentum(c *collision.Contact) mgl64.Vec3 {
	return c.A.P.Add(c.B.P)
}

// Total angular momentum of the pair about the world origin.
func totalAngularMomentum(c *collision.Contact) mgl64.Vec3 {
	la := c.A.L.Add(c.A.X.Cross(c.A.P))
	lb := c.B.L.Add(c.B.X.Cross(c.B.P))
	return la.Add(lb)
}

var _ = Describe("PointVelocity", func() {
	It("combines linear and angular terms", func() {
		b := newBody(2.0, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 2, 3})
		b.L = mgl64.Vec3{0, 0, 2} // identity inertia: omega = L

		v := collision.PointVelocity(b, mgl64.Vec3{2, 0, 0})
		// v + omega x r = (1,2,3) + (0,0,2) x (1,0,0)
		Expect(v[0]).To(BeNumerically("~", 1, 1e-12))
		Expect(v[1]).To(BeNumerically("~", 4, 1e-12))
		Expect(v[2]).To(BeNumerically("~", 3, 1e-12))
	})
})

var _ = Describe("Colliding", func() {
	var r *collision.Resolver

	BeforeEach(func() {
		r = collision.NewResolver()
	})

	It("is true only for approaching contacts beyond the tolerance", func() {
		c := headOnContact(1, 1, 1, -1) // vrel = -2
		Expect(r.Colliding(&c)).To(BeTrue())
	})

	It("is false for separating contacts", func() {
		c := headOnContact(1, 1, -1, 1) // vrel = +2
		Expect(r.Colliding(&c)).To(BeFalse())
	})

	It("treats the tolerance band as resting contact", func() {
		c := headOnContact(1, 1, 0, 0)
		Expect(r.Colliding(&c)).To(BeFalse())

		half := r.Threshold / 4
		c = headOnContact(1, 1, half, -half) // |vrel| = threshold/2
		Expect(r.Colliding(&c)).To(BeFalse())
	})

	It("respects a configured threshold", func() {
		r.Threshold = 1.0
		c := headOnContact(1, 1, 0.25, -0.25) // vrel = -0.5, inside band
		Expect(r.Colliding(&c)).To(BeFalse())

		r.Threshold = 0.1
		Expect(r.Colliding(&c)).To(BeTrue())
	})
})

var _ = Describe("Resolve", func() {
	var r *collision.Resolver

	BeforeEach(func() {
		r = collision.NewResolver()
	})

	It("fully exchanges velocities for equal masses at restitution 1", func() {
		c := headOnContact(1, 1, 1, -1)
		Expect(r.Resolve(&c, 1.0)).To(Succeed())

		Expect(c.A.Velocity()[0]).To(BeNumerically("~", -1, 1e-12))
		Expect(c.B.Velocity()[0]).To(BeNumerically("~", 1, 1e-12))
	})

	It("conserves momentum for any restitution and mass ratio", func() {
		cases := []struct {
			ma, mb, e float64
		}{
			{1, 1, 0}, {1, 1, 0.5}, {1, 1, 1},
			{0.1, 10, 0.3}, {2, 7, 1}, {5, 0.25, 0},
		}
		for _, tc := range cases {
			c := headOnContact(tc.ma, tc.mb, 2, -3)
			c.A.L = mgl64.Vec3{0.1, -0.2, 0.3}
			c.B.L = mgl64.Vec3{-0.4, 0.5, 0}
			p0 := totalLinearMomentum(&c)
			l0 := totalAngularMomentum(&c)

			Expect(r.Resolve(&c, tc.e)).To(Succeed())

			p1 := totalLinearMomentum(&c)
			l1 := totalAngularMomentum(&c)
			for i := 0; i < 3; i++ {
				Expect(p1[i]).To(BeNumerically("~", p0[i], 1e-5),
					"linear momentum drifted (ma=%v mb=%v e=%v)", tc.ma, tc.mb, tc.e)
				Expect(l1[i]).To(BeNumerically("~", l0[i], 1e-5),
					"angular momentum drifted (ma=%v mb=%v e=%v)", tc.ma, tc.mb, tc.e)
			}
		}
	})

	It("kills the approach entirely at restitution 0", func() {
		c := headOnContact(1, 1, 1, -1)
		Expect(r.Resolve(&c, 0)).To(Succeed())
		Expect(collision.RelativeNormalVelocity(&c)).To(BeNumerically("~", 0, 1e-12))
	})

	It("bounces off a static body without moving it", func() {
		ball := newBody(1, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -5, 0})
		ground := rigid.NewStatic()
		c := collision.Contact{
			A:      ball,
			B:      ground,
			Point:  mgl64.Vec3{0, 0, 0},
			Normal: mgl64.Vec3{0, 1, 0},
		}

		Expect(r.Resolve(&c, 1.0)).To(Succeed())
		Expect(ball.Velocity()[1]).To(BeNumerically("~", 5, 1e-12))
		Expect(ground.P).To(Equal(mgl64.Vec3{}))
		Expect(ground.L).To(Equal(mgl64.Vec3{}))
	})

	It("rejects contacts with missing bodies", func() {
		c := headOnContact(1, 1, 1, -1)
		c.B = nil
		Expect(r.Resolve(&c, 0.5)).To(MatchError(dynamo.ErrDegenerateContact))
	})

	It("rejects a zero-length normal", func() {
		c := headOnContact(1, 1, 1, -1)
		c.Normal = mgl64.Vec3{}
		Expect(r.Resolve(&c, 0.5)).To(MatchError(dynamo.ErrDegenerateContact))
	})

	It("rejects degenerate bodies instead of producing NaN", func() {
		c := headOnContact(1, 1, 1, -1)
		c.A.Mass = 0
		Expect(r.Resolve(&c, 0.5)).To(MatchError(dynamo.ErrDegenerateBody))

		c = headOnContact(1, 1, 1, -1)
		c.B.P[0] = math.NaN()
		Expect(r.Resolve(&c, 0.5)).To(MatchError(dynamo.ErrDegenerateBody))
	})
})

var _ = Describe("ResolveAll", func() {
	var r *collision.Resolver

	BeforeEach(func() {
		r = collision.NewResolver()
	})

	It("leaves non-approaching contacts untouched", func() {
		c := headOnContact(1, 1, -1, 1)
		va, vb := c.A.Velocity(), c.B.Velocity()

		resolved, err := r.ResolveAll([]collision.Contact{c})
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved).To(BeZero())
		Expect(c.A.Velocity()).To(Equal(va))
		Expect(c.B.Velocity()).To(Equal(vb))
	})

	It("resolves an approaching pair and terminates", func() {
		c := headOnContact(1, 1, 1, -1)
		discontinuities := 0
		r.OnDiscontinuity = func() { discontinuities++ }

		resolved, err := r.ResolveAll([]collision.Contact{c})
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved).To(BeNumerically(">=", 1))
		Expect(discontinuities).To(Equal(resolved))
		Expect(r.Colliding(&c)).To(BeFalse())
	})

	It("reports cap exhaustion on oscillating configurations", func() {
		// Two contacts at the same point with opposite normals: resolving
		// one re-triggers the other at restitution 1.
		c1 := headOnContact(1, 1, 1, -1)
		c2 := c1
		c2.Normal = mgl64.Vec3{1, 0, 0}

		r.Restitution = 1.0
		r.MaxPasses = 8

		resolved, err := r.ResolveAll([]collision.Contact{c1, c2})
		Expect(err).To(MatchError(dynamo.ErrNoConvergence))
		Expect(resolved).To(BeNumerically(">", 0))
	})

	It("fails fast on invalid contacts before touching any body", func() {
		good := headOnContact(1, 1, 1, -1)
		bad := collision.Contact{}
		p0 := good.A.P

		_, err := r.ResolveAll([]collision.Contact{good, bad})
		Expect(err).To(MatchError(dynamo.ErrDegenerateContact))
		Expect(good.A.P).To(Equal(p0))
	})
})
