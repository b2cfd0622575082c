package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Columns 0-2 hold the local X, Y and Z axes, column 3 the translation.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateX returns a rotation matrix around the X axis.
// angle is in radians.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY returns a rotation matrix around the Y axis.
// angle is in radians.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// EulerXYZ returns the rotation applying X, then Y, then Z (radians).
func EulerXYZ(x, y, z float32) Mat4 {
	return RotateZ(z).Mul(RotateY(y)).Mul(RotateX(x))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformVec3 transforms a point by this matrix (assumes w=1).
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	x := m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	y := m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	z := m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Column returns the first three components of column i.
func (m Mat4) Column(i int) Vec3 {
	return Vec3{m[i*4], m[i*4+1], m[i*4+2]}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return m.Column(3)
}

// Determinant3x3 returns the determinant of the upper-left 3x3 block.
// A zero value means the basis is degenerate and cannot be inverted.
func (m Mat4) Determinant3x3() float32 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

// InverseTranspose3x3 returns the inverse transpose of the upper-left 3x3
// block, the matrix that maps surface normals. ok is false when the block
// is singular.
func (m Mat4) InverseTranspose3x3() (Mat4, bool) {
	c0, c1, c2 := m.Column(0), m.Column(1), m.Column(2)
	det := c0.Dot(c1.Cross(c2))
	if det == 0 {
		return Mat4{}, false
	}

	// Rows of the inverse are the pairwise cross products of the columns.
	r0 := c1.Cross(c2).Scale(1 / det)
	r1 := c2.Cross(c0).Scale(1 / det)
	r2 := c0.Cross(c1).Scale(1 / det)
	return Mat4{
		r0.X, r0.Y, r0.Z, 0,
		r1.X, r1.Y, r1.Z, 0,
		r2.X, r2.Y, r2.Z, 0,
		0, 0, 0, 1,
	}, true
}

// TransformNormal maps a surface normal through this matrix and returns it
// normalized. A singular matrix yields the zero vector.
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	it, ok := m.InverseTranspose3x3()
	if !ok {
		return Vec3{}
	}
	return it.TransformDirection(n).Normalize()
}

// IsFinite reports whether every element is finite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
