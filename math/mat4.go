package math

// Mat4 is a row-major 4x4 matrix used by affine transform hierarchy
// nodes (spec.md §3, §4.2).
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

func (m Mat4) Mul(rhs Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * rhs[k][j]
			}
			result[i][j] = sum
		}
	}
	return result
}

// MulPoint transforms a point (implicit w=1) and divides by the
// resulting w.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
	w := m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]
	if w == 0 || w == 1 {
		return Vec3{X: x, Y: y, Z: z}
	}
	return Vec3{X: x / w, Y: y / w, Z: z / w}
}

// Upper3 returns the upper-left 3x3 block.
func (m Mat4) Upper3() Mat3 {
	return Mat3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// NormalMatrix returns the transpose-inverse of the upper-left 3x3
// block, the correct transform for direction vectors (normals) under a
// non-uniform-scaling affine transform (spec.md §3's precomputed
// "normal matrix").
func (m Mat4) NormalMatrix() Mat3 {
	return mat3Inverse(m.Upper3()).Transpose()
}

func mat3Inverse(m Mat3) Mat3 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	A := e*i - f*h
	B := -(d*i - f*g)
	C := d*h - e*g
	det := a*A + b*B + c*C
	if det == 0 {
		return Mat3Identity()
	}
	invDet := 1.0 / det

	D := -(b*i - c*h)
	E := a*i - c*g
	F := -(a*h - b*g)
	G := b*f - c*e
	H := -(a*f - c*d)
	I := a*e - b*d

	return Mat3{
		{A * invDet, D * invDet, G * invDet},
		{B * invDet, E * invDet, H * invDet},
		{C * invDet, F * invDet, I * invDet},
	}
}

// Inverse computes the inverse of the full 4x4 affine matrix via
// Gauss-Jordan elimination on the augmented [M|I] matrix.
func (m Mat4) Inverse() Mat4 {
	var aug [4][8]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			aug[r][c] = float64(m[r][c])
		}
		aug[r][4+r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		best := aug[col][col]
		if best < 0 {
			best = -best
		}
		for r := col + 1; r < 4; r++ {
			v := aug[r][col]
			if v < 0 {
				v = -v
			}
			if v > best {
				best = v
				pivot = r
			}
		}
		if pivot != col {
			aug[col], aug[pivot] = aug[pivot], aug[col]
		}
		pv := aug[col][col]
		if pv == 0 {
			return Mat4Identity()
		}
		for c := 0; c < 8; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for c := 0; c < 8; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	var result Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			result[r][c] = float32(aug[r][4+c])
		}
	}
	return result
}
