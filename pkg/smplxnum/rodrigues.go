package smplxnum

import "math"

// rodriguesEpsilon is the small-angle threshold below which the rotation
// is taken to be identity, avoiding a division by (near) zero theta.
const rodriguesEpsilon = 1e-5

// Rodrigues converts an axis-angle vector (axis * angle, in radians) into a
// row-major 3x3 rotation matrix via Rodrigues' closed-form formula:
//
//	R = cos(theta)*I + (1-cos(theta))*r*r^T + sin(theta)*[r]x
//
// where r = v/theta. For ||v|| < 1e-5 this returns the identity, matching
// original_source/include/smplx/util.hpp:rodrigues's small-angle branch.
func Rodrigues(v [3]float32) [9]float32 {
	theta := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if theta < rodriguesEpsilon {
		return [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}

	rx, ry, rz := v[0]/theta, v[1]/theta, v[2]/theta
	c := float32(math.Cos(float64(theta)))
	s := float32(math.Sin(float64(theta)))
	oneMinusC := 1 - c

	return [9]float32{
		c + oneMinusC*rx*rx, oneMinusC*rx*ry - s*rz, oneMinusC*rx*rz + s*ry,
		oneMinusC*rx*ry + s*rz, c + oneMinusC*ry*ry, oneMinusC*ry*rz - s*rx,
		oneMinusC*rx*rz - s*ry, oneMinusC*ry*rz + s*rx, c + oneMinusC*rz*rz,
	}
}
