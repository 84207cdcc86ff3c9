package math

import (
	stdmath "math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	dot := v1.Dot(v2)
	expectedDot := float32(32)
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	cross := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0))
	if cross != NewVec3(0, 0, 1) {
		t.Errorf("Cross: expected %v, got %v", NewVec3(0, 0, 1), cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)
	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	length := normalized.Length()
	if stdmath.Abs(float64(length-1)) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}
}

func TestReflect(t *testing.T) {
	incoming := NewVec3(1, -1, 0).Normalize()
	normal := NewVec3(0, 1, 0)
	reflected := incoming.Reflect(normal)

	expected := NewVec3(1, 1, 0).Normalize()
	if stdmath.Abs(float64(reflected.X-expected.X)) > 1e-5 ||
		stdmath.Abs(float64(reflected.Y-expected.Y)) > 1e-5 {
		t.Errorf("Reflect: expected %v, got %v", expected, reflected)
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	// A ray grazing the interface from a dense medium refracting into a
	// sparser one totally internally reflects for high enough eta.
	incoming := NewVec3(1, -0.05, 0).Normalize()
	normal := NewVec3(0, 1, 0)

	_, ok := incoming.Refract(normal, 2.0)
	if ok {
		t.Errorf("Refract: expected total internal reflection, got a transmitted direction")
	}
}

func TestRefractStraightThrough(t *testing.T) {
	incoming := NewVec3(0, -1, 0)
	normal := NewVec3(0, 1, 0)

	dir, ok := incoming.Refract(normal, 1.0)
	if !ok {
		t.Fatalf("Refract: expected a transmitted direction")
	}
	if stdmath.Abs(float64(dir.X)) > 1e-5 || dir.Y > -0.99 {
		t.Errorf("Refract: expected straight-through direction, got %v", dir)
	}
}

func TestCosineWeightedOnHemisphereStaysAboveSurface(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	for _, sample := range [][2]float32{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.01}} {
		dir := CosineWeightedOnHemisphere(sample[0], sample[1], normal)
		if dir.Dot(normal) < 0 {
			t.Errorf("CosineWeightedOnHemisphere(%v): direction %v fell below the surface", sample, dir)
		}
	}
}

func TestRandomOnHemisphereStaysAboveSurface(t *testing.T) {
	normal := NewVec3(0, 0, 1)
	for _, sample := range [][2]float32{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.01}} {
		dir := RandomOnHemisphere(sample[0], sample[1], normal)
		if dir.Dot(normal) < 0 {
			t.Errorf("RandomOnHemisphere(%v): direction %v fell below the surface", sample, dir)
		}
	}
}
