package scenegraph

import (
	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// MeshUnloaded is a mesh-reference hierarchy node as decoded from
// scene JSON: a path to a mesh resource and a path to the material
// every triangle in it is shaded with.
type MeshUnloaded struct {
	Path     string `json:"path"`
	Material string `json:"material"`
}

func (m *MeshUnloaded) CollectReferences() []resource.UninitRef {
	return []resource.UninitRef{
		{Type: resource.Mesh, Path: m.Path},
		{Type: resource.Material, Path: m.Material},
	}
}

func (m *MeshUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	material := replacer.GetReplacement(resource.UninitRef{Type: resource.Material, Path: m.Material})
	mesh := replacer.GetReplacement(resource.UninitRef{Type: resource.Mesh, Path: m.Path})
	return &MeshRef{MeshID: mesh.ID, Material: material.ID}, nil
}

// MeshRef is the resolved form of MeshUnloaded: dense ids into the
// Scene's Meshes and Materials vectors.
type MeshRef struct {
	MeshID   resource.ID
	Material resource.ID
}

func (m *MeshRef) Intersect(s *Scene, r Ray) Hit {
	mesh := &s.Meshes[m.MeshID]
	closest := Miss()
	for i := range mesh.Triangles {
		hit := intersectTriangle(&mesh.Triangles[i], r)
		if hit.Hit && hit.T < closest.T {
			closest = hit
		}
	}
	closest.Material = m.Material
	return closest
}

// intersectTriangle implements the Moller-Trumbore ray/triangle
// intersection algorithm, then interpolates UV and normal with
// area-weighted barycentric coordinates derived from the hit point.
func intersectTriangle(tri *resource.Triangle, r Ray) Hit {
	v0, v1, v2 := tri.Vertices[0].Position, tri.Vertices[1].Position, tri.Vertices[2].Position

	edge0 := v1.Sub(v0)
	edge1 := v2.Sub(v0)
	pvec := r.Direction.Cross(edge1)
	determinant := edge0.Dot(pvec)
	// determinant < 0 means the ray approaches the back face; near
	// zero means the ray is parallel to the triangle's plane.
	if determinant < rmath.Epsilon && determinant > -rmath.Epsilon {
		return Miss()
	}
	invDeterminant := 1.0 / determinant

	tvec := r.Source.Sub(v0)
	u := tvec.Dot(pvec) * invDeterminant
	if u < 0 || u > 1 {
		return Miss()
	}

	qvec := tvec.Cross(edge0)
	v := r.Direction.Dot(qvec) * invDeterminant
	if v < 0 || u+v > 1 {
		return Miss()
	}

	t := edge1.Dot(qvec) * invDeterminant
	if t < r.Min || t > r.Max {
		return Miss()
	}

	point := r.Source.Add(r.Direction.Mul(t))
	bary := barycentric(tri, point)

	return Hit{
		Hit:    true,
		Point:  point,
		UV:     interpolateUV(tri, bary),
		Normal: interpolateNormal(tri, bary),
		T:      t,
	}
}

func barycentric(tri *resource.Triangle, point rmath.Vec3) [3]float32 {
	toVertex := [3]rmath.Vec3{
		tri.Vertices[0].Position.Sub(point),
		tri.Vertices[1].Position.Sub(point),
		tri.Vertices[2].Position.Sub(point),
	}
	raw := [3]float32{
		absf(toVertex[1].Cross(toVertex[2]).Dot(tri.TrueNormal)),
		absf(toVertex[0].Cross(toVertex[2]).Dot(tri.TrueNormal)),
		absf(toVertex[0].Cross(toVertex[1]).Dot(tri.TrueNormal)),
	}
	sum := raw[0] + raw[1] + raw[2]
	return [3]float32{raw[0] / sum, raw[1] / sum, raw[2] / sum}
}

func interpolateUV(tri *resource.Triangle, bary [3]float32) rmath.Vec2 {
	return tri.Vertices[0].UV.Mul(bary[0]).
		Add(tri.Vertices[1].UV.Mul(bary[1])).
		Add(tri.Vertices[2].UV.Mul(bary[2]))
}

func interpolateNormal(tri *resource.Triangle, bary [3]float32) rmath.Vec3 {
	return tri.Vertices[0].Normal.Mul(bary[0]).
		Add(tri.Vertices[1].Normal.Mul(bary[1])).
		Add(tri.Vertices[2].Normal.Mul(bary[2]))
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
