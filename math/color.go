package math

import "math"

// Color is a linear RGB radiance/albedo value. It is a plain alias over
// Vec3 — path-traced color arithmetic (mix, scale, accumulate) is
// exactly vector arithmetic; no alpha channel is needed on this side of
// the pipeline (alpha only matters for decoded PNG/JPEG image resources,
// handled in the resource package).
type Color = Vec3

var (
	ColorBlack = Vec3Zero
	ColorWhite = Vec3One
)

// Mix linearly interpolates between a and b by t (used for F0 in the
// PBR material: mix(0.04, albedo, metallic)).
func Mix(a, b Color, t float32) Color {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// IsFinite reports whether every channel is finite and non-NaN — used
// to guard the path integrator against propagating broken samples
// (spec.md §7, rendering invariants).
func (v Vec3) IsFinite() bool {
	return isFiniteF(v.X) && isFiniteF(v.Y) && isFiniteF(v.Z)
}

func isFiniteF(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
