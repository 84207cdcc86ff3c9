package render

import (
	"math/rand"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/scenegraph"
)

// trace walks one camera ray through the scene up to maxDepth
// bounces, accumulating the emitted/multiplied radiance along the
// path. The source expresses this as WorkGroup::get_color, a
// recursion that unwinds by one material.Scatter call per depth;
// expressed here as an explicit loop so a fixed trace depth can never
// overflow the call stack regardless of how large a render task sets
// it.
func trace(scene *scenegraph.Scene, ray scenegraph.Ray, maxDepth int, rng *rand.Rand) rmath.Color {
	color := rmath.ColorBlack
	throughput := rmath.ColorWhite

	for depth := 0; depth < maxDepth; depth++ {
		hit := scene.Intersect(ray)
		if !hit.Hit {
			break
		}

		material := scene.Materials[hit.Material]
		result := material.Scatter(ray.Direction, hit, scene, rng)

		if result.Terminal {
			color = color.Add(throughput.MulVec(result.Emitted))
			break
		}

		throughput = throughput.MulVec(result.Mult)

		rayStart := hit.Point.Add(result.Direction.Mul(rmath.Epsilon))
		ray = scenegraph.NewRay(rayStart, result.Direction, rmath.Epsilon, float32(1e37))
	}

	if !color.IsFinite() {
		return rmath.ColorBlack
	}
	return color
}
