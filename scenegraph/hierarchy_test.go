package scenegraph

import (
	"errors"
	"testing"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

func TestSphereIntersectFromOutside(t *testing.T) {
	s := &Sphere{Center: rmath.NewVec3(0, 0, 5), Radius: 1, radiusSqr: 1, Material: 3}
	r := NewRay(rmath.Vec3Zero, rmath.NewVec3(0, 0, 1), 0, 1000)

	hit := s.Intersect(nil, r)
	if !hit.Hit {
		t.Fatalf("expected a hit")
	}
	if hit.HitInside {
		t.Errorf("expected hit from outside, got hit_inside=true")
	}
	if hit.Material != 3 {
		t.Errorf("expected material id 3, got %d", hit.Material)
	}
	wantT := float32(4)
	if diff := hit.T - wantT; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("expected t=%v, got %v", wantT, hit.T)
	}
}

func TestSphereMiss(t *testing.T) {
	s := &Sphere{Center: rmath.NewVec3(10, 10, 10), Radius: 1, radiusSqr: 1}
	r := NewRay(rmath.Vec3Zero, rmath.NewVec3(0, 0, 1), 0, 1000)
	if hit := s.Intersect(nil, r); hit.Hit {
		t.Errorf("expected a miss, got a hit at t=%v", hit.T)
	}
}

func TestPlaneIntersect(t *testing.T) {
	p := &Plane{
		Point:     rmath.NewVec3(0, 0, 5),
		Normal:    rmath.NewVec3(0, 0, -1),
		Tangent:   rmath.NewVec3(1, 0, 0),
		Bitangent: rmath.NewVec3(0, 1, 0),
		Material:  7,
	}
	r := NewRay(rmath.Vec3Zero, rmath.NewVec3(0, 0, 1), 0, 1000)

	hit := p.Intersect(nil, r)
	if !hit.Hit {
		t.Fatalf("expected a hit")
	}
	if hit.T != 5 {
		t.Errorf("expected t=5, got %v", hit.T)
	}
	if hit.Material != 7 {
		t.Errorf("expected material id 7, got %d", hit.Material)
	}
}

func TestPlaneUnloadedInitAcceptsOrthonormalBasis(t *testing.T) {
	p := &PlaneUnloaded{
		Point:     rmath.NewVec3(0, 0, 5),
		Normal:    rmath.NewVec3(0, 0, -1),
		Tangent:   rmath.NewVec3(1, 0, 0),
		Bitangent: rmath.NewVec3(0, 1, 0),
		Material:  "materials/floor.json",
	}

	node, err := p.Init(resource.NewMapping())
	if err != nil {
		t.Fatalf("unexpected error for an orthonormal basis: %v", err)
	}
	if _, ok := node.(*Plane); !ok {
		t.Fatalf("expected a *Plane, got %T", node)
	}
}

func TestPlaneUnloadedInitRejectsNonOrthogonalBasis(t *testing.T) {
	p := &PlaneUnloaded{
		Point:  rmath.NewVec3(0, 0, 5),
		Normal: rmath.NewVec3(0, 0, -1),
		// Tangent canted 45 degrees toward the normal: not orthogonal.
		Tangent:   rmath.NewVec3(1, 0, -1),
		Bitangent: rmath.NewVec3(0, 1, 0),
		Material:  "materials/floor.json",
	}

	_, err := p.Init(resource.NewMapping())
	if err == nil {
		t.Fatal("expected an error for a non-orthonormal plane basis")
	}
	var malformed *resource.ErrMalformed
	if !errors.As(err, &malformed) {
		t.Errorf("expected a *resource.ErrMalformed, got %T: %v", err, err)
	}
}

func TestNodeCollectionPicksClosestHit(t *testing.T) {
	near := &Sphere{Center: rmath.NewVec3(0, 0, 2), Radius: 1, radiusSqr: 1, Material: 1}
	far := &Sphere{Center: rmath.NewVec3(0, 0, 10), Radius: 1, radiusSqr: 1, Material: 2}
	collection := &NodeCollection{Children: []Node{far, near}}

	hit := collection.Intersect(nil, NewRay(rmath.Vec3Zero, rmath.NewVec3(0, 0, 1), 0, 1000))
	if !hit.Hit || hit.Material != 1 {
		t.Errorf("expected the nearer sphere (material 1) to win, got hit=%v material=%d", hit.Hit, hit.Material)
	}
}

func TestTransformRewritesRayAndHit(t *testing.T) {
	sphere := &Sphere{Center: rmath.Vec3Zero, Radius: 1, radiusSqr: 1, Material: 5}
	transform := &Transform{
		Matrix:        rmath.Mat4Translation(rmath.NewVec3(0, 0, 5)),
		matrixInverse: rmath.Mat4Translation(rmath.NewVec3(0, 0, -5)),
		normalMatrix:  rmath.Mat4Translation(rmath.NewVec3(0, 0, 5)).NormalMatrix(),
		Child:         sphere,
	}

	hit := transform.Intersect(nil, NewRay(rmath.Vec3Zero, rmath.NewVec3(0, 0, 1), 0, 1000))
	if !hit.Hit {
		t.Fatalf("expected a hit through the transform")
	}
	wantT := float32(4)
	if diff := hit.T - wantT; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("expected t=%v in parent space, got %v", wantT, hit.T)
	}
}

func TestResolverAssignsDenseMaterialIDs(t *testing.T) {
	hierarchy := &NodeCollectionUnloaded{
		Children: []UnloadedNode{
			&SphereUnloaded{Material: "materials/red.json"},
			&SphereUnloaded{Material: "materials/blue.json"},
			&SphereUnloaded{Material: "materials/red.json"},
		},
	}

	mapping := resource.NewMapping()
	if _, err := hierarchy.Init(mapping); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := mapping.Count(resource.Material); got != 2 {
		t.Errorf("expected 2 distinct materials, got %d", got)
	}

	pending := mapping.PendingProcessing()
	if len(pending) != 2 {
		t.Errorf("expected 2 pending materials on first pass, got %d", len(pending))
	}
	if more := mapping.PendingProcessing(); len(more) != 0 {
		t.Errorf("expected no new pending entries on second pass, got %d", len(more))
	}
}

func TestDecodeNodeRejectsUnknownType(t *testing.T) {
	_, err := DecodeNode([]byte(`{"type": "not_a_real_node"}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown node type")
	}
}

func TestDecodeSphereNode(t *testing.T) {
	node, err := DecodeNode([]byte(`{"type": "sphere", "center": {"x":0,"y":0,"z":0}, "radius": 2, "material": "m.json"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sphere, ok := node.(*SphereUnloaded)
	if !ok {
		t.Fatalf("expected *SphereUnloaded, got %T", node)
	}
	if sphere.Radius != 2 {
		t.Errorf("expected radius 2, got %v", sphere.Radius)
	}
}
