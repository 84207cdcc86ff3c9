// Package render implements the tile-based path-traced renderer:
// camera ray generation, the iterative path integrator and the
// goroutine worker pool that drives iterations across tiles.
package render

import (
	"math"
	"math/rand"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/scenegraph"
)

// Resolution is a pixel width/height pair, the Go form of the
// source's UVec2 where it denotes an image size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BokehShape selects how a camera samples a point on its objective
// lens for depth-of-field. Values are lowercased on the wire, mirroring
// the source's #[serde(rename_all = "lowercase")].
type BokehShape string

const (
	BokehPoint  BokehShape = "point"
	BokehCircle BokehShape = "circle"
	BokehSquare BokehShape = "square"
)

// sample draws a 2D offset on the objective in the shape's local
// coordinates, scaled by the camera's bokeh_size by the caller.
func (b BokehShape) sample(rng *rand.Rand) rmath.Vec2 {
	switch b {
	case BokehCircle:
		phi := rng.Float32() * 2.0 * float32(math.Pi)
		r := float32(math.Sqrt(float64(rng.Float32())))
		sin, cos := math.Sincos(float64(phi))
		return rmath.NewVec2(r*float32(cos), r*float32(sin))
	case BokehSquare:
		return rmath.NewVec2(rng.Float32()-0.5, rng.Float32()-0.5)
	default:
		return rmath.Vec2{}
	}
}

// Camera is a thin-lens pinhole-with-objective camera, as decoded from
// a render task's JSON (spec.md §5.1).
type Camera struct {
	Resolution Resolution `json:"resolution"`
	Rotation   rmath.Mat3 `json:"rotation"`
	Position   rmath.Vec3 `json:"position"`
	FOV        float32    `json:"field_of_view"`
	NearPlane  float32    `json:"near_plane"`
	FocalLen   float32    `json:"focal_length"`
	BokehShape BokehShape `json:"bokeh_shape"`
	BokehSize  float32    `json:"bokeh_size"`
}

// GetRay fires one sample ray through pixel (x, y), jittering both the
// pixel position (for antialiasing) and the point on the objective
// (for depth of field), exactly as the source's Camera::get_ray.
func (c *Camera) GetRay(x, y int, rng *rand.Rand) scenegraph.Ray {
	xOffset := rng.Float32() - 0.5
	yOffset := rng.Float32() - 0.5

	viewportX := c.FocalLen * float32(math.Tan(float64(c.FOV*0.5))) * 2.0
	viewportY := viewportX * (float32(c.Resolution.Height) / float32(c.Resolution.Width))

	watchDot := c.Position
	watchDot.X += ((float32(x)+xOffset)/float32(c.Resolution.Width) - 0.5) * viewportX
	watchDot.Y += ((float32(y)+yOffset)/float32(c.Resolution.Height) - 0.5) * viewportY
	watchDot.Z -= c.FocalLen

	pointOnObjective := c.Position
	objectiveSample := c.BokehShape.sample(rng)
	pointOnObjective.X += objectiveSample.X * c.BokehSize
	pointOnObjective.Y += objectiveSample.Y * c.BokehSize

	direction := c.Rotation.MulVec3(watchDot.Sub(pointOnObjective))
	nearPlaneDist := direction.Length() / c.FocalLen * c.NearPlane

	return scenegraph.Ray{
		Source:    pointOnObjective,
		Direction: direction.Normalize(),
		Min:       nearPlaneDist,
		Max:       float32(math.MaxFloat32),
	}
}
