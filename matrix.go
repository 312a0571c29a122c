package vtex

import "math"

// Mat3x2 is a 2x3 affine transformation matrix stored in column-major
// order, the layout GL uniform uploads expect:
//
//	| A[0]  A[2]  A[4] |
//	| A[1]  A[3]  A[5] |
//
// It maps (x, y, 1) to (x', y'):
//
//	x' = A[0]*x + A[2]*y + A[4]
//	y' = A[1]*x + A[3]*y + A[5]
type Mat3x2 [6]float32

// Identity3x2 returns the identity affine matrix.
func Identity3x2() Mat3x2 {
	return Mat3x2{1, 0, 0, 1, 0, 0}
}

// Mul composes two affine matrices (a applied after b), as if the
// 2x3 matrices were expanded to 3x3 with [0 0 1] as the last row. The
// implicit row is zero in the first two columns, so a's translation
// only contributes to the last column.
func (a Mat3x2) Mul(b Mat3x2) Mat3x2 {
	var out Mat3x2
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			out[i*2+j] = a[0*2+j]*b[i*2+0] +
				a[1*2+j]*b[i*2+1]
		}
	}
	out[2*2+0] += a[2*2+0]
	out[2*2+1] += a[2*2+1]
	return out
}

// Apply transforms a point.
func (a Mat3x2) Apply(x, y float32) (float32, float32) {
	return a[0]*x + a[2]*y + a[4],
		a[1]*x + a[3]*y + a[5]
}

// Mat2 is a 2x2 matrix stored in column-major order.
type Mat2 [4]float32

// Mat4 is a 4x4 matrix stored in column-major order.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Apply transforms a 4-component column vector.
func (m Mat4) Apply(v [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		var sum float32
		for k := 0; k < 4; k++ {
			sum += m[k*4+row] * v[k]
		}
		out[row] = sum
	}
	return out
}

// direction extracts the two column vectors of an affine matrix, each
// normalized to unit length. The translation column and any scaling are
// discarded, leaving only the orientation of the texture axes.
func (a Mat3x2) direction() Mat2 {
	ux, uy := a[0], a[1]
	vx, vy := a[2], a[3]

	unorm := float32(math.Sqrt(float64(ux*ux + uy*uy)))
	vnorm := float32(math.Sqrt(float64(vx*vx + vy*vy)))

	return Mat2{ux / unorm, uy / unorm, vx / vnorm, vy / vnorm}
}

// alignPOT rounds v up to the next power of two.
func alignPOT(v int32) int32 {
	aligned := int32(1)
	for aligned < v {
		aligned <<= 1
	}
	return aligned
}
