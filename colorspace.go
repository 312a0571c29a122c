package vtex

import "github.com/gogpu/vtex/chroma"

// Space selects the YUV color standard used to encode a frame.
type Space uint8

const (
	// SpaceUndefined falls back to BT.709.
	SpaceUndefined Space = iota
	// SpaceBT601 is ITU-R BT.601 (SD content).
	SpaceBT601
	// SpaceBT709 is ITU-R BT.709 (HD content).
	SpaceBT709
	// SpaceBT2020 is ITU-R BT.2020 (UHD content).
	SpaceBT2020
)

// Range selects the dynamic range of encoded samples.
type Range uint8

const (
	// RangeLimited is the studio range: luma in [16, 235] and chroma in
	// [16, 240] for 8-bit samples.
	RangeLimited Range = iota
	// RangeFull uses the whole sample range.
	RangeFull
)

// lumaCoefficients builds a 3x3 YUV-to-RGB matrix (row-major) from the
// luma weights of the red and blue components. The green weight is
// deduced: kr + kg + kb == 1.
//
// Ref: <https://en.wikipedia.org/wiki/YCbCr#ITU-R_BT.601_conversion>
func lumaCoefficients(kr, kb float64) [3 * 3]float64 {
	kg := 1 - kr - kb
	return [3 * 3]float64{
		1, 0, 2 * (1 - kr),
		1, -2 * (1 - kb) * (kb / kg), -2 * (1 - kr) * (kr / kg),
		1, 2 * (1 - kb), 0,
	}
}

// Fixed color-standard matrices (row-major 3x3).
var (
	matrixBT601  = lumaCoefficients(0.299, 0.114)
	matrixBT709  = lumaCoefficients(0.2126, 0.0722)
	matrixBT2020 = lumaCoefficients(0.2627, 0.0593)
)

// Range expansion matrices (row-major 3x4). The last column is the bias
// applied after scaling.
var (
	matrixRangeLimited = [4 * 3]float64{
		255.0 / 219, 0, 0, -255.0 / 219 * 16.0 / 255,
		0, 255.0 / 224, 0, -255.0 / 224 * 128.0 / 255,
		0, 0, 255.0 / 224, -255.0 / 224 * 128.0 / 255,
	}

	matrixRangeFull = [4 * 3]float64{
		1, 0, 0, 0,
		0, 1, 0, -128.0 / 255,
		0, 0, 1, -128.0 / 255,
	}
)

// conversionMatrix builds the 4x4 matrix converting sampled YUV texels to
// full-range RGB, in column-major order (GL ES does not support row-major
// uploads at all).
func conversionMatrix(space Space, rng Range) Mat4 {
	var spaceMatrix [3 * 3]float64
	switch space {
	case SpaceBT601:
		spaceMatrix = matrixBT601
	case SpaceBT2020:
		spaceMatrix = matrixBT2020
	default:
		spaceMatrix = matrixBT709
	}

	rangeMatrix := matrixRangeLimited
	if rng == RangeFull {
		rangeMatrix = matrixRangeFull
	}

	// Multiply the matrices on CPU once for all. The accumulation runs in
	// float64 even though the result is float32, to avoid unnecessary
	// rounding.
	var out Mat4
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += spaceMatrix[y*3+k] * rangeMatrix[k*4+x]
			}
			// Reversed indices: x is now the row, y the column.
			out[x*4+y] = float32(sum)
		}
	}

	// Fill the 4th row (column-major) so the matrix is square; old GL ES
	// versions reject non-square matrices.
	out[3] = 0
	out[7] = 0
	out[11] = 0
	out[15] = 1

	return out
}

// bitPlacementScale returns the correction factor for samples stored on
// the least significant bits of a larger container, and whether a
// correction is needed at all.
func bitPlacementScale(desc *chroma.Description) (float32, bool) {
	if desc.PixelSize != 2 || desc.MSBSamples {
		return 1, false
	}
	scale := float32(1<<16-1) / float32(int32(1)<<desc.PixelBits-1)
	return scale, true
}

// yuvConversionMatrix builds the complete conversion matrix for a YUV
// format: color standard times range expansion, then the bit-placement
// correction, then the U/V component swap. The order matters.
//
// The input is always treated as limited range; the range expansion
// produces full-range output.
func yuvConversionMatrix(desc *chroma.Description, space Space) Mat4 {
	matrix := conversionMatrix(space, RangeLimited)

	if scale, ok := bitPlacementScale(desc); ok {
		// Equivalent to right-multiplying by diag(scale, scale, scale, 1):
		// scale the 3 first columns, leaving the bias column untouched.
		for col := 0; col < 3; col++ {
			for row := 0; row < 4; row++ {
				matrix[col*4+row] *= scale
			}
		}
	}

	if desc.SwapUV {
		// Right-multiplying by the permutation swapping components 1 and
		// 2 is a swap of columns 1 and 2.
		for row := 0; row < 4; row++ {
			matrix[1*4+row], matrix[2*4+row] = matrix[2*4+row], matrix[1*4+row]
		}
	}

	return matrix
}
