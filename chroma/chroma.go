// Package chroma describes video pixel formats: how many planes a format
// carries, how its samples are sized and subsampled, and how its physical
// channel layout maps back to logical component order.
//
// The descriptions are pure data. They drive texture allocation (one GPU
// texture per plane) and fragment shader generation in the parent vtex
// package, but have no GPU dependency themselves beyond naming the
// gputypes.TextureFormat each plane would be stored in.
package chroma

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format identifies a video pixel format.
type Format uint32

const (
	Unknown Format = iota

	// Planar YUV, 8-bit.
	I420 // 4:2:0, Y then U then V
	I422 // 4:2:2
	I444 // 4:4:4
	YV12 // 4:2:0, Y then V then U
	YV9  // 4:1:0, Y then V then U

	// Planar YUV, >8-bit samples in 16-bit little-endian containers,
	// stored on the least significant bits.
	I420P10
	I422P10
	I444P10
	I420P12
	I444P16

	// Biplanar YUV: full-resolution Y plane plus an interleaved
	// half-resolution chroma plane.
	NV12 // UV order
	NV21 // VU order
	P010 // 10-bit samples on the most significant bits
	P016 // 16-bit samples

	// Packed 4:2:2 YUV, one plane, two pixels per 32-bit group.
	UYVY
	YUYV
	VYUY
	YVYU

	// RGB family, one plane.
	RGBA
	BGRA
	RGBX

	// CIE XYZ, 12-bit samples in 16-bit containers, one packed plane.
	XYZ12

	// RGBP is 8-bit palette-indexed RGB. Listed so that callers get a
	// precise error: paletted formats cannot be sampled.
	RGBP
)

// MaxPlanes is the maximum number of planes any supported format uses.
const MaxPlanes = 3

// ErrUnsupported is returned by Describe for unknown or paletted formats.
var ErrUnsupported = errors.New("chroma: unsupported pixel format")

// Ratio is a plane dimension as a fraction of the picture dimension.
type Ratio struct {
	Num, Den int
}

// Scale applies the ratio to a picture dimension.
func (r Ratio) Scale(v int32) int32 {
	return v * int32(r.Num) / int32(r.Den)
}

// Plane describes one plane of a format.
type Plane struct {
	// W and H scale picture dimensions to plane dimensions.
	W, H Ratio

	// Channels is the number of interleaved channels per sample group.
	Channels int

	// Texture is the texture format an interop would allocate for this
	// plane.
	Texture gputypes.TextureFormat
}

// Description is the resolved layout of a pixel format.
type Description struct {
	Format     Format
	PlaneCount int

	// PixelSize is the container size of one sample in bytes (1 or 2).
	PixelSize int

	// PixelBits is the number of significant bits per sample.
	PixelBits int

	IsYUV bool

	// SwapUV reports that the format stores V before U, so the consumer
	// must realign component order (YV12, YV9, NV21).
	SwapUV bool

	// MSBSamples reports that >8-bit samples sit on the most significant
	// bits of their container, so no bit-placement correction is needed
	// when sampling (P010, P016).
	MSBSamples bool

	// PackedSwizzle is the channel permutation recovering (Y, U, V) from
	// a packed single-plane layout. Empty for planar and RGB formats.
	PackedSwizzle string

	Planes [MaxPlanes]Plane
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

var formatNames = map[Format]string{
	Unknown: "Unknown",
	I420:    "I420", I422: "I422", I444: "I444", YV12: "YV12", YV9: "YV9",
	I420P10: "I420P10", I422P10: "I422P10", I444P10: "I444P10",
	I420P12: "I420P12", I444P16: "I444P16",
	NV12: "NV12", NV21: "NV21", P010: "P010", P016: "P016",
	UYVY: "UYVY", YUYV: "YUYV", VYUY: "VYUY", YVYU: "YVYU",
	RGBA: "RGBA", BGRA: "BGRA", RGBX: "RGBX",
	XYZ12: "XYZ12", RGBP: "RGBP",
}

func full(ch int, tex gputypes.TextureFormat) Plane {
	return Plane{W: Ratio{1, 1}, H: Ratio{1, 1}, Channels: ch, Texture: tex}
}

func sub(wd, hd, ch int, tex gputypes.TextureFormat) Plane {
	return Plane{W: Ratio{1, wd}, H: Ratio{1, hd}, Channels: ch, Texture: tex}
}

func planar3(f Format, wd, hd int) *Description {
	return &Description{
		Format: f, PlaneCount: 3, PixelSize: 1, PixelBits: 8, IsYUV: true,
		Planes: [MaxPlanes]Plane{
			full(1, gputypes.TextureFormatR8Unorm),
			sub(wd, hd, 1, gputypes.TextureFormatR8Unorm),
			sub(wd, hd, 1, gputypes.TextureFormatR8Unorm),
		},
	}
}

func planar3HiDepth(f Format, wd, hd, bits int) *Description {
	d := &Description{
		Format: f, PlaneCount: 3, PixelSize: 2, PixelBits: bits, IsYUV: true,
		Planes: [MaxPlanes]Plane{
			full(1, gputypes.TextureFormatR16Uint),
			sub(wd, hd, 1, gputypes.TextureFormatR16Uint),
			sub(wd, hd, 1, gputypes.TextureFormatR16Uint),
		},
	}
	return d
}

func biplanar(f Format, size, bits int, chromaTex gputypes.TextureFormat, lumaTex gputypes.TextureFormat) *Description {
	return &Description{
		Format: f, PlaneCount: 2, PixelSize: size, PixelBits: bits, IsYUV: true,
		Planes: [MaxPlanes]Plane{
			full(1, lumaTex),
			sub(2, 2, 2, chromaTex),
		},
	}
}

func packed422(f Format, swizzle string) *Description {
	// One RGBA texel covers two pixels, so the texel grid is half the
	// picture width.
	return &Description{
		Format: f, PlaneCount: 1, PixelSize: 1, PixelBits: 8, IsYUV: true,
		PackedSwizzle: swizzle,
		Planes: [MaxPlanes]Plane{
			{W: Ratio{1, 2}, H: Ratio{1, 1}, Channels: 4,
				Texture: gputypes.TextureFormatRGBA8Unorm},
		},
	}
}

func rgb(f Format, tex gputypes.TextureFormat) *Description {
	return &Description{
		Format: f, PlaneCount: 1, PixelSize: 1, PixelBits: 8,
		Planes: [MaxPlanes]Plane{full(4, tex)},
	}
}

// Describe resolves a format to its layout description.
//
// It fails for unknown formats and for paletted formats, which cannot be
// sampled without a lookup pass.
func Describe(f Format) (*Description, error) {
	switch f {
	case I420:
		return planar3(f, 2, 2), nil
	case I422:
		return planar3(f, 2, 1), nil
	case I444:
		return planar3(f, 1, 1), nil
	case YV12:
		d := planar3(f, 2, 2)
		d.SwapUV = true
		return d, nil
	case YV9:
		d := planar3(f, 4, 4)
		d.SwapUV = true
		return d, nil

	case I420P10:
		return planar3HiDepth(f, 2, 2, 10), nil
	case I422P10:
		return planar3HiDepth(f, 2, 1, 10), nil
	case I444P10:
		return planar3HiDepth(f, 1, 1, 10), nil
	case I420P12:
		return planar3HiDepth(f, 2, 2, 12), nil
	case I444P16:
		return planar3HiDepth(f, 1, 1, 16), nil

	case NV12:
		return biplanar(f, 1, 8, gputypes.TextureFormatRG8Unorm,
			gputypes.TextureFormatR8Unorm), nil
	case NV21:
		d := biplanar(f, 1, 8, gputypes.TextureFormatRG8Unorm,
			gputypes.TextureFormatR8Unorm)
		d.SwapUV = true
		return d, nil
	case P010:
		d := biplanar(f, 2, 10, gputypes.TextureFormatRG16Uint,
			gputypes.TextureFormatR16Uint)
		d.MSBSamples = true
		return d, nil
	case P016:
		d := biplanar(f, 2, 16, gputypes.TextureFormatRG16Uint,
			gputypes.TextureFormatR16Uint)
		d.MSBSamples = true
		return d, nil

	// Packed layouts, swizzles in Y1 U V order:
	//   R  G  B  A
	//   U  Y1 V  Y2  =>  GRB
	//   Y1 U  Y2 V   =>  RGA
	//   V  Y1 U  Y2  =>  GBR
	//   Y1 V  Y2 U   =>  RAG
	case UYVY:
		return packed422(f, "grb"), nil
	case YUYV:
		return packed422(f, "rga"), nil
	case VYUY:
		return packed422(f, "gbr"), nil
	case YVYU:
		return packed422(f, "rag"), nil

	case RGBA, RGBX:
		return rgb(f, gputypes.TextureFormatRGBA8Unorm), nil
	case BGRA:
		return rgb(f, gputypes.TextureFormatBGRA8Unorm), nil

	case XYZ12:
		return &Description{
			Format: f, PlaneCount: 1, PixelSize: 2, PixelBits: 12,
			Planes: [MaxPlanes]Plane{
				full(3, gputypes.TextureFormatRGBA16Uint),
			},
		}, nil

	case RGBP:
		return nil, fmt.Errorf("%w: %s uses a color palette", ErrUnsupported, f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
}
