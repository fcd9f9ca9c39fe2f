package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrEmptyState indicates an empty initial state vector.
	ErrEmptyState = errors.New("dynamo: empty state vector")

	// ErrBadInterval indicates a non-forward time interval (t1 <= t0).
	ErrBadInterval = errors.New("dynamo: final time must be greater than initial time")

	// ErrStepSize indicates a non-positive integration step size.
	ErrStepSize = errors.New("dynamo: step size must be positive")

	// ErrUnknownIntegrator indicates an unrecognized integrator type tag.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator type")

	// ErrMalformedState indicates a state vector whose length is not a
	// whole multiple of the per-body block size.
	ErrMalformedState = errors.New("dynamo: state length is not a multiple of the body block size")

	// ErrShortBuffer indicates a destination slice too small for the
	// requested encode or decode.
	ErrShortBuffer = errors.New("dynamo: buffer too small for body block")

	// ErrDegenerateBody indicates a body with non-positive mass or a
	// non-finite field.
	ErrDegenerateBody = errors.New("dynamo: degenerate body (non-positive mass or non-finite state)")

	// ErrDegenerateContact indicates a contact with missing body
	// references or a zero-length normal.
	ErrDegenerateContact = errors.New("dynamo: degenerate contact")

	// ErrNoConvergence indicates the collision resolution pass cap was
	// reached before all contacts separated. Recoverable: the partially
	// resolved state is still usable.
	ErrNoConvergence = errors.New("dynamo: collision resolution did not converge within pass cap")

	// ErrInvalidState indicates NaN or Inf appeared in a state vector.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)
