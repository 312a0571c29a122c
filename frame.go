package vtex

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vtex/chroma"
)

// Transfer is the transfer function hint of a frame, used to decide
// whether a color-mapping stage is needed for faithful display.
type Transfer uint8

const (
	TransferUndefined Transfer = iota
	TransferSRGB
	TransferPQ  // SMPTE ST 2084
	TransferHLG // Hybrid log-gamma
)

// Primaries is the color primaries hint of a frame.
type Primaries uint8

const (
	PrimariesUndefined Primaries = iota
	PrimariesBT709
	PrimariesBT2020
)

// FrameFormat describes the geometry and colorimetry of video frames.
type FrameFormat struct {
	Chroma chroma.Format

	// Width and Height are the coded dimensions, including padding.
	Width, Height uint32

	// VisibleX, VisibleY, VisibleWidth and VisibleHeight delimit the
	// region of the coded picture that is actually displayed.
	VisibleX, VisibleY          uint32
	VisibleWidth, VisibleHeight uint32

	Space       Space
	Range       Range
	Orientation Orientation

	// Transfer and Primaries feed the optional color-mapping stage.
	Transfer  Transfer
	Primaries Primaries
}

// Visible returns a format's visible region as offsets and size.
func (f FrameFormat) Visible() (x, y, w, h uint32) {
	return f.VisibleX, f.VisibleY, f.VisibleWidth, f.VisibleHeight
}

// FramePlane is one plane of frame data.
type FramePlane struct {
	// Data holds the plane samples, row by row.
	Data []byte

	// Stride is the distance in bytes between rows.
	Stride int
}

// Frame is a decoded video frame handed to a frame-driven sampler. The
// sampler itself only reads the format; plane data is consumed by the
// interop during upload.
type Frame struct {
	Format FrameFormat
	Planes [chroma.MaxPlanes]FramePlane
}

// NewFrame allocates a frame with plane storage sized from the format's
// chroma description.
func NewFrame(format FrameFormat) (*Frame, error) {
	desc, err := chroma.Describe(format.Chroma)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Format: format}
	for i := 0; i < desc.PlaneCount; i++ {
		p := desc.Planes[i]
		w := int(p.W.Scale(int32(format.Width)))
		h := int(p.H.Scale(int32(format.Height)))
		stride := w * p.Channels * desc.PixelSize
		frame.Planes[i] = FramePlane{
			Data:   make([]byte, stride*h),
			Stride: stride,
		}
	}
	return frame, nil
}

// FrameFromYCbCr wraps a stdlib YCbCr image as a planar YUV frame
// without copying. The subsample ratio selects the chroma format; only
// 4:2:0, 4:2:2 and 4:4:4 have a planar equivalent here.
func FrameFromYCbCr(img *image.YCbCr, space Space) (*Frame, error) {
	var format chroma.Format
	switch img.SubsampleRatio {
	case image.YCbCrSubsampleRatio420:
		format = chroma.I420
	case image.YCbCrSubsampleRatio422:
		format = chroma.I422
	case image.YCbCrSubsampleRatio444:
		format = chroma.I444
	default:
		return nil, fmt.Errorf("%w: no planar mapping for subsample ratio %v",
			chroma.ErrUnsupported, img.SubsampleRatio)
	}

	bounds := img.Bounds()
	w, h := uint32(bounds.Dx()), uint32(bounds.Dy())
	frame := &Frame{
		Format: FrameFormat{
			Chroma:        format,
			Width:         w,
			Height:        h,
			VisibleWidth:  w,
			VisibleHeight: h,
			Space:         space,
			Range:         RangeLimited,
		},
	}
	frame.Planes[0] = FramePlane{Data: img.Y, Stride: img.YStride}
	frame.Planes[1] = FramePlane{Data: img.Cb, Stride: img.CStride}
	frame.Planes[2] = FramePlane{Data: img.Cr, Stride: img.CStride}
	return frame, nil
}

// FrameFromImage converts any image into an RGBA frame of the given
// size, scaling with Catmull-Rom interpolation when dimensions differ.
func FrameFromImage(img image.Image, width, height uint32) *Frame {
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	frame := &Frame{
		Format: FrameFormat{
			Chroma:        chroma.RGBA,
			Width:         width,
			Height:        height,
			VisibleWidth:  width,
			VisibleHeight: height,
			Range:         RangeFull,
		},
	}
	frame.Planes[0] = FramePlane{Data: dst.Pix, Stride: dst.Stride}
	return frame
}
