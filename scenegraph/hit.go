package scenegraph

import (
	stdmath "math"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/resource"
)

// Hit is the result of intersecting a Ray against a Node. A miss is
// represented by Hit{} (Hit == false) rather than an error: a ray not
// hitting a node is an expected outcome of every trace, not a fault.
type Hit struct {
	Hit       bool
	HitInside bool

	Point    rmath.Vec3
	Normal   rmath.Vec3
	UV       rmath.Vec2
	T        float32
	Material resource.ID
}

// Miss is a non-hit with infinite T, used as the fold
// seed when a collection picks the closest child hit.
func Miss() Hit {
	return Hit{T: float32(stdmath.Inf(1))}
}
