package scenegraph

import (
	stdmath "math"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// SphereUnloaded is a sphere primitive as decoded from scene JSON.
type SphereUnloaded struct {
	Center   rmath.Vec3 `json:"center"`
	Radius   float32    `json:"radius"`
	Material string     `json:"material"`
}

func (s *SphereUnloaded) CollectReferences() []resource.UninitRef {
	return []resource.UninitRef{{Type: resource.Material, Path: s.Material}}
}

func (s *SphereUnloaded) Init(replacer resource.ReferenceReplacer) (Node, error) {
	material := replacer.GetReplacement(resource.UninitRef{Type: resource.Material, Path: s.Material})
	return &Sphere{
		Center:    s.Center,
		Radius:    s.Radius,
		radiusSqr: s.Radius * s.Radius,
		Material:  material.ID,
	}, nil
}

// Sphere is the resolved form of SphereUnloaded.
type Sphere struct {
	Center    rmath.Vec3
	Radius    float32
	radiusSqr float32
	Material  resource.ID
}

// NewSphere builds an already-resolved Sphere, for callers that
// construct hierarchy nodes directly rather than through Init.
func NewSphere(center rmath.Vec3, radius float32, material resource.ID) *Sphere {
	return &Sphere{Center: center, Radius: radius, radiusSqr: radius * radius, Material: material}
}

func (s *Sphere) Intersect(_ *Scene, r Ray) Hit {
	a := s.Center.Sub(r.Source)
	// length(direction*t + source - center) = radius, direction is
	// normalized so the quadratic's leading coefficient is 1.
	halfSecondK := -a.Dot(r.Direction)
	discriminant := 4.0 * (halfSecondK*halfSecondK - (a.Dot(a) - s.radiusSqr))
	if discriminant < 0 {
		return Miss()
	}

	dSqrt := float32(stdmath.Sqrt(float64(discriminant)))
	t1 := -halfSecondK + dSqrt/2.0
	t2 := -halfSecondK - dSqrt/2.0

	var t float32
	hitInside := false
	switch {
	case t2 >= r.Min && t2 <= r.Max:
		t = t2
	case t1 >= r.Min && t1 <= r.Max:
		t = t1
		hitInside = true
	default:
		return Miss()
	}

	point := r.Source.Add(r.Direction.Mul(t))
	normalFacingOutside := float32(1.0)
	if hitInside {
		normalFacingOutside = -1.0
	}
	normal := point.Sub(s.Center).Mul(1.0 / (s.Radius * normalFacingOutside))

	u := float32(stdmath.Atan2(float64(normal.X), float64(normal.Z)))/(2.0*rmath.Pi) + 0.5
	v := float32(stdmath.Asin(float64(normal.Y)))/rmath.Pi + 0.5

	return Hit{
		Hit:       true,
		HitInside: hitInside,
		Point:     point,
		Normal:    normal,
		UV:        rmath.NewVec2(u, v),
		T:         t,
		Material:  s.Material,
	}
}
