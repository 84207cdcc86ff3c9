package scenegraph

import rmath "github.com/mertwole/pathtracer/math"

// Ray is a half-open segment traced through the hierarchy: points with
// parameter t in [Min, Max] along Source + Direction*t are considered
// part of the ray (spec.md §4.2).
type Ray struct {
	Source    rmath.Vec3
	Direction rmath.Vec3
	Min, Max  float32
}

func NewRay(source, direction rmath.Vec3, min, max float32) Ray {
	return Ray{Source: source, Direction: direction, Min: min, Max: max}
}

// ApplyTransform rewrites the ray into the local space of a child
// behind an affine Transform node: the endpoints are carried through
// the matrix and Min/Max are recomputed as distances from the new
// source, since a non-uniform scale changes what "one unit along the
// direction" means (spec.md §4.2's Transform node contract).
func (r Ray) ApplyTransform(m rmath.Mat4) Ray {
	source := m.MulPoint(r.Source)
	minPoint := m.MulPoint(r.Source.Add(r.Direction.Mul(r.Min)))
	maxPoint := m.MulPoint(r.Source.Add(r.Direction.Mul(r.Max)))
	direction := m.NormalMatrix().MulVec3(r.Direction)

	return Ray{
		Source:    source,
		Direction: direction,
		Min:       minPoint.Sub(source).Length(),
		Max:       maxPoint.Sub(source).Length(),
	}
}
