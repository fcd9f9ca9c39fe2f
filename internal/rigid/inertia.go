package rigid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/rigidsim/internal/dynamo"
)

// CenterOfMassAndVolume computes the center of mass and enclosed volume of
// a closed triangle mesh by summing signed tetrahedra against the origin.
// Indices are triples into vertices with consistent outward winding.
func CenterOfMassAndVolume(vertices []mgl64.Vec3, indices []uint32) (mgl64.Vec3, float64) {
	var comX24Vol mgl64.Vec3
	volumeX6 := 0.0

	for i := 0; i+2 < len(indices); i += 3 {
		v0 := vertices[indices[i]]
		v1 := vertices[indices[i+1]]
		v2 := vertices[indices[i+2]]

		// Determinant of the column matrix [v0 v1 v2] = 6 * signed volume.
		det := v0.Dot(v1.Cross(v2))
		comX24Vol = comX24Vol.Add(v0.Add(v1).Add(v2).Mul(det))
		volumeX6 += det
	}

	com := mgl64.Vec3{}
	if volumeX6 != 0 {
		com = comX24Vol.Mul(1.0 / (4.0 * volumeX6))
	}
	return com, math.Abs(volumeX6 / 6.0)
}

// InertiaTensor computes the unit-density inertia tensor of a closed mesh
// about the given center of mass, by accumulating per-tetrahedron vertex
// covariance and converting it to moments. Scale by density for real mass.
func InertiaTensor(vertices []mgl64.Vec3, indices []uint32, com mgl64.Vec3) mgl64.Mat3 {
	var cov mgl64.Mat3

	for i := 0; i+2 < len(indices); i += 3 {
		r0 := vertices[indices[i]].Sub(com)
		r1 := vertices[indices[i+1]].Sub(com)
		r2 := vertices[indices[i+2]].Sub(com)

		vol := r0.Dot(r1.Cross(r2)) / 6.0

		c := outer(r0, r0).Add(outer(r1, r1)).Add(outer(r2, r2)).
			Add(outer(r0, r1)).Add(outer(r1, r2)).Add(outer(r2, r0))
		cov = cov.Add(c.Mul(vol / 10.0))
	}

	// Symmetrize before converting covariance into moments of inertia.
	cov = cov.Add(cov.Transpose()).Mul(0.5)

	var inertia mgl64.Mat3
	inertia.Set(0, 0, cov.At(1, 1)+cov.At(2, 2))
	inertia.Set(1, 1, cov.At(0, 0)+cov.At(2, 2))
	inertia.Set(2, 2, cov.At(0, 0)+cov.At(1, 1))
	inertia.Set(0, 1, -cov.At(0, 1))
	inertia.Set(1, 0, -cov.At(0, 1))
	inertia.Set(1, 2, -cov.At(1, 2))
	inertia.Set(2, 1, -cov.At(1, 2))
	inertia.Set(0, 2, -cov.At(0, 2))
	inertia.Set(2, 0, -cov.At(0, 2))
	return inertia
}

// InverseInertia inverts an inertia tensor, rejecting singular tensors
// instead of propagating a zero matrix.
func InverseInertia(inertia mgl64.Mat3) (mgl64.Mat3, error) {
	if math.Abs(inertia.Det()) < 1e-12 {
		return mgl64.Mat3{}, dynamo.ErrDegenerateBody
	}
	return inertia.Inv(), nil
}

// SolidBoxInertia is the analytic inertia tensor of a solid box with the
// given full extents, about its center of mass.
func SolidBoxInertia(mass, sx, sy, sz float64) mgl64.Mat3 {
	k := mass / 12.0
	return mgl64.Diag3(mgl64.Vec3{
		k * (sy*sy + sz*sz),
		k * (sx*sx + sz*sz),
		k * (sx*sx + sy*sy),
	})
}

// SolidSphereInertia is the analytic inertia tensor of a solid sphere.
func SolidSphereInertia(mass, radius float64) mgl64.Mat3 {
	k := 2.0 / 5.0 * mass * radius * radius
	return mgl64.Diag3(mgl64.Vec3{k, k, k})
}

func outer(a, b mgl64.Vec3) mgl64.Mat3 {
	var m mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, a[i]*b[j])
		}
	}
	return m
}
