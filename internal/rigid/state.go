package rigid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// Flat layout of one body block, contiguous per body:
//
//	[x,y,z, R00..R22 (row-major), Px,Py,Pz, Lx,Ly,Lz]
//
// The extended layout appends force and torque scratch slots used by the
// force-evaluation pass that precedes derivative computation.
const (
	StateSize    = 18
	ExtendedSize = 24

	ForceOffset  = 18
	TorqueOffset = 21
)

// StateToArray encodes the 18 canonical fields of b into y at offset.
// Undersized buffers are an error, not a silent no-op.
func StateToArray(b *Body, y []float64, offset int) error {
	if b == nil {
		return dynamo.ErrDegenerateBody
	}
	if offset < 0 || len(y) < offset+StateSize {
		return fmt.Errorf("%w: need %d scalars at offset %d, have %d",
			dynamo.ErrShortBuffer, StateSize, offset, len(y))
	}

	idx := offset
	y[idx] = b.X[0]
	y[idx+1] = b.X[1]
	y[idx+2] = b.X[2]
	idx += 3

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			y[idx] = b.R.At(i, j)
			idx++
		}
	}

	y[idx] = b.P[0]
	y[idx+1] = b.P[1]
	y[idx+2] = b.P[2]
	idx += 3

	y[idx] = b.L[0]
	y[idx+1] = b.L[1]
	y[idx+2] = b.L[2]
	return nil
}

// ArrayToState decodes one body block from y at offset into b, overwriting
// position, orientation, and momenta. Mass and inverse inertia are body
// parameters, not state, and are left untouched. Velocities are not part of
// the block; callers derive them from the momenta.
func ArrayToState(y []float64, b *Body, offset int) error {
	if b == nil {
		return dynamo.ErrDegenerateBody
	}
	if offset < 0 || len(y) < offset+StateSize {
		return fmt.Errorf("%w: need %d scalars at offset %d, have %d",
			dynamo.ErrShortBuffer, StateSize, offset, len(y))
	}

	idx := offset
	b.X = mgl64.Vec3{y[idx], y[idx+1], y[idx+2]}
	idx += 3

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.R.Set(i, j, y[idx])
			idx++
		}
	}

	b.P = mgl64.Vec3{y[idx], y[idx+1], y[idx+2]}
	idx += 3
	b.L = mgl64.Vec3{y[idx], y[idx+1], y[idx+2]}
	return nil
}

// Star returns the skew-symmetric cross-product matrix of a, so that
// Star(a).Mul3x1(v) == a × v:
//
//	[  0  -az   ay ]
//	[  az   0  -ax ]
//	[ -ay  ax    0 ]
func Star(a mgl64.Vec3) mgl64.Mat3 {
	var m mgl64.Mat3
	m.Set(0, 1, -a[2])
	m.Set(0, 2, a[1])
	m.Set(1, 0, a[2])
	m.Set(1, 2, -a[0])
	m.Set(2, 0, -a[1])
	m.Set(2, 1, a[0])
	return m
}
