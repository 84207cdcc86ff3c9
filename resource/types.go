// Package resource implements the two-phase resource resolver
// (spec.md §4.1): it turns path-based references embedded in a scene
// hierarchy into dense integer indices while discovering the
// transitive closure of referenced blobs, and it loads mesh and image
// resources from raw bytes (the fetch loop itself is scenegraph.Load).
package resource

import "fmt"

// Type is the closed set of resource kinds a scene can reference.
type Type int

const (
	Mesh Type = iota
	Material
	Image
	KdTree
)

func (t Type) String() string {
	switch t {
	case Mesh:
		return "mesh"
	case Material:
		return "material"
	case Image:
		return "image"
	case KdTree:
		return "kd_tree"
	default:
		return fmt.Sprintf("resource.Type(%d)", int(t))
	}
}

// AllTypes enumerates the closed set, used to seed a fresh Mapping.
func AllTypes() []Type {
	return []Type{Mesh, Material, Image, KdTree}
}

// ID is a dense, 0-based index into one of a Scene's per-type resource
// vectors.
type ID int

// UninitRef is a reference still expressed as a logical path — the
// form a scene hierarchy or resource carries before resolution.
type UninitRef struct {
	Type Type
	Path string
}

// Ref is a reference expressed as a dense integer id — the form every
// cross-reference takes after resolution (spec.md §3).
type Ref struct {
	Type Type
	ID   ID
}

// ReferenceReplacer turns a path-form reference into an id-form one,
// assigning a fresh id on first sight (spec.md §4.1 step 2).
type ReferenceReplacer interface {
	GetReplacement(ref UninitRef) Ref
}

// ErrUnsupported flags a resource kind whose loading is explicitly out
// of scope (the kd-tree traversal placeholder, spec.md §1, §7).
type ErrUnsupported struct {
	Type Type
	Path string
}

func (e *ErrUnsupported) Error() string {
	return fmt.Sprintf("resource: unsupported resource kind %s at %q", e.Type, e.Path)
}

// ErrMalformed flags scene/resource data that failed to decode or
// violated an init-time precondition (spec.md §7 kind 1).
type ErrMalformed struct {
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("resource: malformed input: %s", e.Reason)
}
