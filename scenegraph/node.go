package scenegraph

import "github.com/mertwole/pathtracer/resource"

// Node is a resolved hierarchy node: every cross-reference it holds
// has already been replaced with a dense resource.ID, and it can
// trace a Ray against itself and, for composite nodes, its children
// (spec.md §4.2).
type Node interface {
	Intersect(s *Scene, r Ray) Hit
}

// UnloadedNode is a hierarchy node as decoded from scene JSON: its
// cross-references are still logical paths. CollectReferences lists
// what a node points at. Init drives the two-phase resolver (spec.md
// §4.1): it rewrites the node into a resolved Node, asking the replacer
// for each reference's id, which assigns a fresh id on first sight;
// Load then fetches whatever those ids name. Init returns an
// error so a node that fails an init-time precondition (e.g. a
// plane's basis not being orthonormal) rejects the whole load instead
// of silently producing a malformed Node.
type UnloadedNode interface {
	CollectReferences() []resource.UninitRef
	Init(replacer resource.ReferenceReplacer) (Node, error)
}
