package scenegraph

import (
	"math/rand"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// ScatterResult is what a Material decides happens to a ray hitting
// it: either the path terminates here carrying Emitted light, or it
// continues in Direction with its accumulated color weighted by Mult
// (spec.md §4.3).
type ScatterResult struct {
	Terminal  bool
	Emitted   rmath.Color
	Mult      rmath.Color
	Direction rmath.Vec3
}

// Material decides how a ray scatters off a Hit. It lives alongside
// Scene and Hit (rather than in its own package) because a Scene holds
// a slice of resolved Materials and a Material needs a *Scene to look
// up texture resources by id — two-way dependency that only a shared
// package can express in Go the way the teacher's single-crate layout
// expresses it in the original.
type Material interface {
	Scatter(incoming rmath.Vec3, hit Hit, scene *Scene, rng *rand.Rand) ScatterResult
}

// MaterialUnloaded is a material resource as decoded from its JSON
// file, its texture references still path-form. The concrete variants
// (Base, PBR) live in package material, which imports scenegraph for
// Material/Hit/Scene — so Load reaches them through a MaterialDecoder
// function value supplied by the caller rather than an import, keeping
// scenegraph free of a dependency back on material.
type MaterialUnloaded interface {
	CollectReferences() []resource.UninitRef
	Init(replacer resource.ReferenceReplacer) Material
}

// MaterialDecoder parses one material resource's raw JSON bytes into
// its uninitialized form. material.Decode satisfies this signature.
type MaterialDecoder func(data []byte) (MaterialUnloaded, error)
