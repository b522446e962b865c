package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion is a rotation stored as W + Xi + Yj + Zk
type Quaternion struct {
	W, X, Y, Z float64
}

func (q Quaternion) quat() mgl64.Quat {
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

func quaternionFrom(q mgl64.Quat) Quaternion {
	return Quaternion{W: q.W, X: q.V[0], Y: q.V[1], Z: q.V[2]}
}

// IdentityQuaternion returns the rotation that leaves every vector unchanged
func IdentityQuaternion() Quaternion {
	return quaternionFrom(mgl64.QuatIdent())
}

// QuaternionFromAxisAngle returns the rotation of angle radians about axis
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	return quaternionFrom(mgl64.QuatRotate(angle, axis.Normalize().vec()))
}

// Norm returns the quaternion magnitude
func (q Quaternion) Norm() float64 {
	return q.quat().Len()
}

// Normalize returns the unit quaternion. A zero quaternion becomes the identity.
func (q Quaternion) Normalize() Quaternion {
	return quaternionFrom(q.quat().Normalize())
}

// Conjugate returns the inverse rotation of a unit quaternion
func (q Quaternion) Conjugate() Quaternion {
	return quaternionFrom(q.quat().Conjugate())
}

// Mul returns the Hamilton product q * r (apply r first, then q)
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return quaternionFrom(q.quat().Mul(r.quat()))
}

// Rotate applies the rotation to v
func (q Quaternion) Rotate(v Vector3) Vector3 {
	return vectorFrom(q.quat().Normalize().Rotate(v.vec()))
}

// ToMatrix3 converts the (normalized) quaternion to a rotation matrix
func (q Quaternion) ToMatrix3() Matrix3 {
	return Matrix3(q.quat().Normalize().Mat4().Mat3())
}

// QuaternionFromMatrix3 converts a rotation matrix to a unit quaternion
func QuaternionFromMatrix3(m Matrix3) Quaternion {
	return quaternionFrom(mgl64.Mat4ToQuat(mgl64.Mat3(m).Mat4()).Normalize())
}

// EqualUpToSign reports whether q and r describe the same rotation.
// q and -q are the same rotation (double cover).
func (q Quaternion) EqualUpToSign(r Quaternion, tol float64) bool {
	dot := q.quat().Normalize().Dot(r.quat().Normalize())
	return math.Abs(math.Abs(dot)-1) <= tol
}

// Array returns the components as [w, x, y, z]
func (q Quaternion) Array() [4]float64 {
	return [4]float64{q.W, q.X, q.Y, q.Z}
}

// QuaternionFromArray builds a quaternion from [w, x, y, z]
func QuaternionFromArray(a [4]float64) Quaternion {
	return Quaternion{W: a[0], X: a[1], Y: a[2], Z: a[3]}
}
