package integrators

import (
	"fmt"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// New selects an integrator by type tag. Tags are case-sensitive; an
// unrecognized tag is an error, never a silent fallback.
func New(kind string, h float64) (dynamo.Integrator, error) {
	switch kind {
	case "euler":
		return NewEuler(h)
	case "rk4":
		return NewRK4(h)
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownIntegrator, kind)
	}
}
