package geometry

import (
	"math"
	"testing"
)

func vectorsClose(a, b Vector3) bool {
	return a.DistanceSquared(b) < 1e-18
}

func TestQuaternionIdentityMatrix(t *testing.T) {
	m := IdentityQuaternion().ToMatrix3()
	if m != IdentityMatrix3() {
		t.Errorf("ToMatrix3 failed: expected identity, got %v", m)
	}
}

func TestQuaternionRotateAboutX(t *testing.T) {
	q := QuaternionFromAxisAngle(AxisX, math.Pi/2)

	// A quarter turn about X maps local Z onto world -Y
	z := q.ToMatrix3().Column(2)
	if !vectorsClose(z, NewVector3(0, -1, 0)) {
		t.Errorf("Column(2) failed: expected (0,-1,0), got %v", z)
	}

	y := q.Rotate(AxisY)
	if !vectorsClose(y, AxisZ) {
		t.Errorf("Rotate failed: expected (0,0,1), got %v", y)
	}
}

func TestQuaternionMatrixRoundTrip(t *testing.T) {
	rotations := []Quaternion{
		IdentityQuaternion(),
		QuaternionFromAxisAngle(AxisX, math.Pi/2),
		QuaternionFromAxisAngle(AxisY, -2.5),
		QuaternionFromAxisAngle(NewVector3(1, 1, 1), 2.0),
		QuaternionFromAxisAngle(NewVector3(0, 1, -3), math.Pi),
	}

	for _, q := range rotations {
		back := QuaternionFromMatrix3(q.ToMatrix3())
		if !back.EqualUpToSign(q, 1e-12) {
			t.Errorf("QuaternionFromMatrix3 failed: expected %v, got %v", q, back)
		}
	}
}

func TestQuaternionEqualUpToSign(t *testing.T) {
	q := QuaternionFromAxisAngle(AxisZ, 0.7)
	neg := Quaternion{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
	if !q.EqualUpToSign(neg, 1e-12) {
		t.Errorf("EqualUpToSign failed: q and -q are the same rotation")
	}
	if q.EqualUpToSign(IdentityQuaternion(), 1e-6) {
		t.Errorf("EqualUpToSign failed: 0.7 rad rotation is not the identity")
	}
}

func TestQuaternionMul(t *testing.T) {
	a := QuaternionFromAxisAngle(AxisZ, math.Pi/4)
	b := a.Mul(a)
	expected := QuaternionFromAxisAngle(AxisZ, math.Pi/2)
	if !b.EqualUpToSign(expected, 1e-12) {
		t.Errorf("Mul failed: expected %v, got %v", expected, b)
	}
	if !a.Mul(a.Conjugate()).EqualUpToSign(IdentityQuaternion(), 1e-12) {
		t.Errorf("Conjugate failed: q * q' should be the identity")
	}
}

func TestQuaternionNormalizeZero(t *testing.T) {
	if q := (Quaternion{}).Normalize(); q != IdentityQuaternion() {
		t.Errorf("Normalize failed: expected identity, got %v", q)
	}
}

func TestMatrix3Columns(t *testing.T) {
	x, y, z := NewVector3(0, 1, 0), NewVector3(-1, 0, 0), AxisZ
	m := Matrix3FromColumns(x, y, z)

	if m.Column(1) != y {
		t.Errorf("Column failed: expected %v, got %v", y, m.Column(1))
	}
	if m.At(0, 1) != -1 || m.At(1, 0) != 1 {
		t.Errorf("At failed: expected m[0][1]=-1 and m[1][0]=1, got %v and %v", m.At(0, 1), m.At(1, 0))
	}
	if d := m.Determinant(); math.Abs(d-1) > 1e-12 {
		t.Errorf("Determinant failed: expected 1, got %v", d)
	}
	if got := m.MulVector(AxisX); !vectorsClose(got, x) {
		t.Errorf("MulVector failed: expected %v, got %v", x, got)
	}
	if got := m.Transpose().MulVector(x); !vectorsClose(got, AxisX) {
		t.Errorf("Transpose failed: expected (1,0,0), got %v", got)
	}

	q := QuaternionFromMatrix3(m)
	if !q.EqualUpToSign(QuaternionFromAxisAngle(AxisZ, math.Pi/2), 1e-12) {
		t.Errorf("QuaternionFromMatrix3 failed: expected a quarter turn about Z, got %v", q)
	}
}
