package geometry

import (
	"math"
	"testing"
)

func checkFrame(t *testing.T, z Vector3) {
	t.Helper()
	x, y := ArbitraryFrameFromZ(z)
	n := z.Normalize()

	if math.Abs(x.Length()-1) > 1e-12 || math.Abs(y.Length()-1) > 1e-12 {
		t.Errorf("frame for %v: axes not unit length: |x|=%v |y|=%v", z, x.Length(), y.Length())
	}
	if math.Abs(x.Dot(y)) > 1e-12 || math.Abs(x.Dot(n)) > 1e-12 || math.Abs(y.Dot(n)) > 1e-12 {
		t.Errorf("frame for %v: axes not orthogonal: x=%v y=%v", z, x, y)
	}
	if !vectorsClose(x.Cross(y), n) {
		t.Errorf("frame for %v: not right-handed, x cross y = %v", z, x.Cross(y))
	}
}

func TestArbitraryFrameFromZ(t *testing.T) {
	directions := []Vector3{
		AxisZ,
		AxisY,
		AxisX,
		AxisX.Neg(),
		NewVector3(1, 1e-9, 0),
		NewVector3(3, -4, 12),
		NewVector3(-0.2, 0.1, -5),
	}
	for _, z := range directions {
		checkFrame(t, z)
	}
}

func TestArbitraryFrameFromXAxisUsesYSeed(t *testing.T) {
	x, y := ArbitraryFrameFromZ(AxisX)

	if !vectorsClose(x, AxisZ) {
		t.Errorf("x failed: expected (0,0,1), got %v", x)
	}
	if !vectorsClose(y, AxisY.Neg()) {
		t.Errorf("y failed: expected (0,-1,0), got %v", y)
	}
}

func TestArbitraryFrameIsDeterministic(t *testing.T) {
	z := NewVector3(0.3, -0.4, 0.5)
	x1, y1 := ArbitraryFrameFromZ(z)
	x2, y2 := ArbitraryFrameFromZ(z.Mul(7))
	if !vectorsClose(x1, x2) || !vectorsClose(y1, y2) {
		t.Errorf("frame depends on direction length: (%v,%v) vs (%v,%v)", x1, y1, x2, y2)
	}
}

func TestRotationFromDirection(t *testing.T) {
	q := RotationFromDirection(NewVector3(2, 0, 0))
	z := q.ToMatrix3().Column(2)
	if !vectorsClose(z, AxisX) {
		t.Errorf("RotationFromDirection failed: local Z maps to %v, expected (1,0,0)", z)
	}

	if q := RotationFromDirection(Vector3{}); q != IdentityQuaternion() {
		t.Errorf("RotationFromDirection failed: zero direction should give identity, got %v", q)
	}
}
