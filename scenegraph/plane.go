package scenegraph

import (
	stdmath "math"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// orthonormalEpsilon bounds how far a plane's basis may deviate from
// pairwise-orthogonal before Init rejects it (spec.md §4.2/§7: "pairwise
// dot product magnitudes < 1e-3"), matching the source's
// assert!(...dot(...).abs() < 0.001).
const orthonormalEpsilon = 1e-3

// PlaneUnloaded is an infinite plane primitive as decoded from scene
// JSON, spanned by an orthonormal (Normal, Tangent, Bitangent) frame
// used to derive UV coordinates on its surface.
type PlaneUnloaded struct {
	Point     rmath.Vec3 `json:"point"`
	Normal    rmath.Vec3 `json:"normal"`
	Tangent   rmath.Vec3 `json:"tangent"`
	Bitangent rmath.Vec3 `json:"bitangent"`
	Material  string     `json:"material"`
}

func (p *PlaneUnloaded) CollectReferences() []resource.UninitRef {
	return []resource.UninitRef{{Type: resource.Material, Path: p.Material}}
}

func (p *PlaneUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	normal := p.Normal.Normalize()
	tangent := p.Tangent.Normalize()
	bitangent := p.Bitangent.Normalize()

	if !orthonormal(normal, tangent, bitangent) {
		return nil, &resource.ErrMalformed{Reason: "plane normal/tangent/bitangent are not pairwise orthonormal"}
	}

	material := replacer.GetReplacement(resource.UninitRef{Type: resource.Material, Path: p.Material})
	return &Plane{
		Point:     p.Point,
		Normal:    normal,
		Tangent:   tangent,
		Bitangent: bitangent,
		Material:  material.ID,
	}, nil
}

// orthonormal reports whether a, b and c are pairwise orthogonal,
// within orthonormalEpsilon (spec.md's init-time precondition on a
// plane's basis).
func orthonormal(a, b, c rmath.Vec3) bool {
	return absDot(a, b) < orthonormalEpsilon &&
		absDot(a, c) < orthonormalEpsilon &&
		absDot(b, c) < orthonormalEpsilon
}

func absDot(a, b rmath.Vec3) float32 {
	return float32(stdmath.Abs(float64(a.Dot(b))))
}

// Plane is the resolved form of PlaneUnloaded.
type Plane struct {
	Point, Normal, Tangent, Bitangent rmath.Vec3
	Material                         resource.ID
}

func (p *Plane) Intersect(_ *Scene, r Ray) Hit {
	// N.(point - x0) = 0 for any point on the plane; substituting the
	// ray's parametric form and solving for t.
	denom := p.Normal.Dot(r.Direction)
	t := p.Normal.Dot(p.Point.Sub(r.Source)) / denom
	if t < r.Min || t > r.Max {
		return Miss()
	}

	point := r.Source.Add(r.Direction.Mul(t))
	normalFacingDir := sign(-r.Direction.Dot(p.Normal))
	hitInside := normalFacingDir < 0

	uvVec := point.Sub(p.Point)
	uv := rmath.NewVec2(uvVec.Dot(p.Bitangent), uvVec.Dot(p.Tangent))

	return Hit{
		Hit:       true,
		HitInside: hitInside,
		Point:     point,
		Normal:    p.Normal.Mul(normalFacingDir),
		UV:        uv,
		T:         t,
		Material:  p.Material,
	}
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}
