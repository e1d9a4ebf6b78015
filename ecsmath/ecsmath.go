// Package ecsmath provides the plain-old-data vector, quaternion, and
// matrix types used to compose transforms for the hierarchy package. It is
// deliberately independent of the root ecs package: nothing here knows
// what an Entity or a World is.
package ecsmath

type Vec3 struct {
	X, Y, Z float32
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Scale(s float32) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Quat is a unit quaternion stored (x, y, z, w).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{W: 1}

// Mul composes rotations so that (a.Mul(b)) applied to a vector rotates by
// b first, then a — matching the usual quaternion composition convention.
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Mat4 is a column-major 4x4 matrix, stored as 16 floats in the same order
// a GPU uniform buffer expects.
type Mat4 [16]float32

// Identity4 is the identity Mat4.
var Identity4 = Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Compose builds the matrix equivalent to translate(pos) * rotate(rot) *
// scale(scl), the standard position-rotation-scale order used to turn a
// LocalTransform into a 4x4 matrix.
func Compose(pos Vec3, rot Quat, scl Vec3) Mat4 {
	x, y, z, w := rot.X, rot.Y, rot.Z, rot.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	var m Mat4
	m[0] = (1 - (yy + zz)) * scl.X
	m[1] = (xy + wz) * scl.X
	m[2] = (xz - wy) * scl.X
	m[3] = 0

	m[4] = (xy - wz) * scl.Y
	m[5] = (1 - (xx + zz)) * scl.Y
	m[6] = (yz + wx) * scl.Y
	m[7] = 0

	m[8] = (xz + wy) * scl.Z
	m[9] = (yz - wx) * scl.Z
	m[10] = (1 - (xx + yy)) * scl.Z
	m[11] = 0

	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
	return m
}

// Multiply returns a * b under column-major, column-vector convention —
// applying the result to a vector applies b first, then a.
func Multiply(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Translation extracts the translation column from m.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
