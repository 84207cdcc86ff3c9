package scenegraph

import "github.com/mertwole/pathtracer/resource"

// Scene is the fully resolved render graph: a hierarchy of Nodes plus
// the dense resource vectors every node's resource.ID indexes into
// (spec.md §3). Reads are safe for concurrent use by any number of
// worker goroutines — nothing in a Scene is mutated after Load
// returns, so no synchronization is needed on the hot trace path
// (the concurrency model's "Scene reads need no mutex", spec.md §5).
type Scene struct {
	Hierarchy Node
	Materials []Material
	Meshes    []resource.Mesh
	Images    []resource.Image
}

// Intersect traces r against the whole scene hierarchy, returning the
// closest hit or a miss.
func (s *Scene) Intersect(r Ray) Hit {
	return s.Hierarchy.Intersect(s, r)
}
