package math

import (
	stdmath "math"
	"testing"
)

func closeVec3(a, b Vec3, eps float32) bool {
	return stdmath.Abs(float64(a.X-b.X)) < float64(eps) &&
		stdmath.Abs(float64(a.Y-b.Y)) < float64(eps) &&
		stdmath.Abs(float64(a.Z-b.Z)) < float64(eps)
}

func TestMat4TranslationInverse(t *testing.T) {
	m := Mat4Translation(NewVec3(5, -2, 1))
	inv := m.Inverse()

	p := NewVec3(1, 1, 1)
	roundTrip := inv.MulPoint(m.MulPoint(p))
	if !closeVec3(roundTrip, p, 1e-4) {
		t.Errorf("Inverse: round trip expected %v, got %v", p, roundTrip)
	}
}

func TestMat4NormalMatrixIdentity(t *testing.T) {
	m := Mat4Identity()
	n := m.NormalMatrix()
	v := NewVec3(0, 1, 0)
	if got := n.MulVec3(v); !closeVec3(got, v, 1e-5) {
		t.Errorf("NormalMatrix: expected identity behavior, got %v", got)
	}
}
