package scenegraph

import (
	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// TransformUnloaded wraps a child node under an affine transform, as
// decoded from scene JSON.
type TransformUnloaded struct {
	Matrix rmath.Mat4   `json:"matrix"`
	Child  UnloadedNode `json:"-"`
}

func (t *TransformUnloaded) CollectReferences() []resource.UninitRef {
	return t.Child.CollectReferences()
}

func (t *TransformUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	child, err := t.Child.Init(replacer)
	if err != nil {
		return nil, err
	}
	return &Transform{
		Matrix:        t.Matrix,
		matrixInverse: t.Matrix.Inverse(),
		normalMatrix:  t.Matrix.NormalMatrix(),
		Child:         child,
	}, nil
}

// Transform is the resolved form of TransformUnloaded, its inverse and
// normal matrix precomputed once at load time (spec.md §4.2).
type Transform struct {
	Matrix        rmath.Mat4
	matrixInverse rmath.Mat4
	normalMatrix  rmath.Mat3
	Child         Node
}

func (t *Transform) Intersect(s *Scene, r Ray) Hit {
	childRay := r.ApplyTransform(t.matrixInverse)
	hit := t.Child.Intersect(s, childRay)
	if !hit.Hit {
		return hit
	}

	point := t.Matrix.MulPoint(hit.Point)
	newT := point.Sub(r.Source).Length()

	hit.Point = point
	hit.Normal = t.normalMatrix.MulVec3(hit.Normal)
	hit.T = newT
	return hit
}
