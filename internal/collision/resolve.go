package collision

import (
	"fmt"
	"math"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

const (
	// DefaultThreshold is the resting-contact tolerance band on the
	// relative normal velocity.
	DefaultThreshold = 1e-6

	DefaultRestitution = 0.5

	// DefaultMaxPasses caps the fixed-point resolution loop. Degenerate
	// contact sets can oscillate forever without a cap.
	DefaultMaxPasses = 64
)

// Resolver classifies contacts and applies impulses until no contact
// reports an approaching velocity. Thresholds and the restitution used by
// ResolveAll are configurable rather than hardcoded.
//
// OnDiscontinuity, when set, fires after every applied impulse: the signal
// that the ODE's continuous-derivative assumption was just violated, so a
// driver can restart integration from the post-impulse state.
type Resolver struct {
	Threshold   float64
	Restitution float64
	MaxPasses   int

	OnDiscontinuity func()
}

func NewResolver() *Resolver {
	return &Resolver{
		Threshold:   DefaultThreshold,
		Restitution: DefaultRestitution,
		MaxPasses:   DefaultMaxPasses,
	}
}

// Colliding reports whether the contact is in colliding (approaching)
// contact: vrel < -Threshold. Separating contacts and contacts within the
// resting band return false.
func (r *Resolver) Colliding(c *Contact) bool {
	vrel := RelativeNormalVelocity(c)
	if vrel > r.Threshold {
		return false // separating
	}
	if vrel > -r.Threshold {
		return false // resting contact
	}
	return true
}

// Resolve computes and applies an instantaneous impulse along the contact
// normal:
//
//	j = -(1+ε)·vrel / (1/ma + 1/mb + n·((Ia⁻¹(ra×n))×ra) + n·((Ib⁻¹(rb×n))×rb))
//
// The impulse j·n is added to A's momentum and subtracted from B's, with
// the matching r × j·n applied to the angular momenta. Velocities are
// derived quantities here, so the post-impulse velocities follow from the
// updated momenta immediately.
func (r *Resolver) Resolve(c *Contact, restitution float64) error {
	if err := c.Validate(); err != nil {
		return err
	}

	n := c.Normal
	ra := c.Point.Sub(c.A.X)
	rb := c.Point.Sub(c.B.X)
	vrel := RelativeNormalVelocity(c)

	termA := 1.0 / c.A.Mass
	termB := 1.0 / c.B.Mass
	angA := n.Dot(c.A.InvInertiaWorld().Mul3x1(ra.Cross(n)).Cross(ra))
	angB := n.Dot(c.B.InvInertiaWorld().Mul3x1(rb.Cross(n)).Cross(rb))

	denom := termA + termB + angA + angB
	if denom <= 0 || math.IsNaN(denom) {
		return fmt.Errorf("%w: impulse denominator %g", dynamo.ErrDegenerateContact, denom)
	}

	j := -(1 + restitution) * vrel / denom
	impulse := n.Mul(j)

	if !c.A.IsStatic() {
		c.A.P = c.A.P.Add(impulse)
		c.A.L = c.A.L.Add(ra.Cross(impulse))
	}
	if !c.B.IsStatic() {
		c.B.P = c.B.P.Sub(impulse)
		c.B.L = c.B.L.Sub(rb.Cross(impulse))
	}
	return nil
}

// ResolveAll runs the fixed-point loop: full passes over the contact list,
// resolving every currently colliding contact, until a pass applies no
// impulse. Returns the number of impulses applied. Hitting the pass cap is
// recoverable: the partially resolved state stands and the error wraps
// ErrNoConvergence.
func (r *Resolver) ResolveAll(contacts []Contact) (int, error) {
	for i := range contacts {
		if err := contacts[i].Validate(); err != nil {
			return 0, err
		}
	}

	maxPasses := r.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	resolved := 0
	for pass := 0; pass < maxPasses; pass++ {
		hadCollision := false
		for i := range contacts {
			if !r.Colliding(&contacts[i]) {
				continue
			}
			if err := r.Resolve(&contacts[i], r.Restitution); err != nil {
				return resolved, err
			}
			resolved++
			hadCollision = true
			if r.OnDiscontinuity != nil {
				r.OnDiscontinuity()
			}
		}
		if !hadCollision {
			return resolved, nil
		}
	}
	return resolved, fmt.Errorf("%d passes: %w", maxPasses, dynamo.ErrNoConvergence)
}
