package math

import "math"

// Vec2 is a 2D vector, used for UV coordinates and screen-space offsets.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(rhs Vec2) Vec2 {
	return Vec2{X: v.X + rhs.X, Y: v.Y + rhs.Y}
}

func (v Vec2) Sub(rhs Vec2) Vec2 {
	return Vec2{X: v.X - rhs.X, Y: v.Y - rhs.Y}
}

func (v Vec2) Mul(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) MulVec(rhs Vec2) Vec2 {
	return Vec2{X: v.X * rhs.X, Y: v.Y * rhs.Y}
}

func (v Vec2) Dot(rhs Vec2) float32 {
	return v.X*rhs.X + v.Y*rhs.Y
}

func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1.0 / l)
}

// Floor returns the component-wise floor, used by repeat-mode UV wrapping.
func (v Vec2) Floor() Vec2 {
	return Vec2{X: float32(math.Floor(float64(v.X))), Y: float32(math.Floor(float64(v.Y)))}
}

// Clamp01 clamps both components to [0, 1], used by clamp-mode UV wrapping.
func (v Vec2) Clamp01() Vec2 {
	return Vec2{X: clamp(v.X, 0, 1), Y: clamp(v.Y, 0, 1)}
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
