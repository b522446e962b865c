package geometry

import "math"

// parallelTolerance decides when a direction is treated as lying on the world X axis
const parallelTolerance = 1e-7

// ArbitraryFrameFromZ builds x and y so that {x, y, z} is a right-handed
// orthonormal frame. z is normalized first; the result is deterministic for
// any non-zero input. World X seeds the construction unless z lies on the X
// axis, in which case world Y is used.
func ArbitraryFrameFromZ(z Vector3) (x, y Vector3) {
	z = z.Normalize()

	seed := AxisX
	if math.Abs(math.Abs(z.Dot(AxisX))-1) < parallelTolerance {
		seed = AxisY
	}

	u := z.Cross(seed).Normalize()
	v := z.Cross(u).Normalize()

	if z.Dot(u.Cross(v)) < 0 {
		return v, u
	}
	return u, v
}

// RotationFromDirection returns a rotation whose local Z axis maps onto direction.
// The rotation about that axis follows ArbitraryFrameFromZ.
func RotationFromDirection(direction Vector3) Quaternion {
	z := direction.Normalize()
	if z == (Vector3{}) {
		return IdentityQuaternion()
	}
	x, y := ArbitraryFrameFromZ(z)
	return QuaternionFromMatrix3(Matrix3FromColumns(x, y, z))
}
