package vtex

// Orientation describes how the video picture is stored in the texture.
type Orientation uint8

const (
	// OrientNormal is the identity orientation.
	OrientNormal Orientation = iota
	// OrientRotated90 is rotated 90 degrees counter-clockwise.
	OrientRotated90
	// OrientRotated180 is rotated 180 degrees.
	OrientRotated180
	// OrientRotated270 is rotated 90 degrees clockwise.
	OrientRotated270
	// OrientHFlipped is flipped horizontally.
	OrientHFlipped
	// OrientVFlipped is flipped vertically.
	OrientVFlipped
	// OrientTransposed is mirrored along the main diagonal.
	OrientTransposed
	// OrientAntiTransposed is mirrored along the anti-diagonal.
	OrientAntiTransposed
)

func (o Orientation) String() string {
	switch o {
	case OrientNormal:
		return "Normal"
	case OrientRotated90:
		return "Rotated90"
	case OrientRotated180:
		return "Rotated180"
	case OrientRotated270:
		return "Rotated270"
	case OrientHFlipped:
		return "HFlipped"
	case OrientVFlipped:
		return "VFlipped"
	case OrientTransposed:
		return "Transposed"
	case OrientAntiTransposed:
		return "AntiTransposed"
	}
	return "Orientation(?)"
}

// orientationMatrix maps picture coordinate axes to texture storage axes
// for each orientation.
//
// Each schema shows how the picture corners land in texture storage, and
// how the picture axes (x, y) relate to the texture axes (X, Y). The
// picture coordinates undergo the reverse of the transformation applied
// to the axes, so expressing (x, y) in terms of (X, Y) gives the matrix
// coefficients.
//
//	 picture        texture
//
//	 1---2           2---3
//	 |   |    --->   |   |
//	 4---3           1---4
func orientationMatrix(o Orientation) Mat3x2 {
	// Rows are (x', y'), columns are the coefficients of (X, Y, 1);
	// storage is column-major.
	set := func(c0r0, c1r0, c2r0, c0r1, c1r1, c2r1 float32) Mat3x2 {
		return Mat3x2{c0r0, c0r1, c1r0, c1r1, c2r0, c2r1}
	}

	switch o {
	case OrientRotated90:
		//	1---2          2---3
		//	|   |   --->   |   |
		//	4---3          1---4
		//
		//	x = 1-Y, y = X
		return set(
			0, -1, 1,
			1, 0, 0)
	case OrientRotated180:
		//	x = 1-X, y = 1-Y
		return set(
			-1, 0, 1,
			0, -1, 1)
	case OrientRotated270:
		//	x = Y, y = 1-X
		return set(
			0, 1, 0,
			-1, 0, 1)
	case OrientHFlipped:
		//	x = 1-X, y = Y
		return set(
			-1, 0, 1,
			0, 1, 0)
	case OrientVFlipped:
		//	x = X, y = 1-Y
		return set(
			1, 0, 0,
			0, -1, 1)
	case OrientTransposed:
		//	x = 1-Y, y = 1-X
		return set(
			0, -1, 1,
			-1, 0, 1)
	case OrientAntiTransposed:
		//	x = Y, y = X
		return set(
			0, 1, 0,
			1, 0, 0)
	default:
		return Identity3x2()
	}
}
