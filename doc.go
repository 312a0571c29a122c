// Package vtex turns decoded video frames into something a fragment
// shader can sample as plain RGB.
//
// # Overview
//
// Video decoders produce frames in dozens of pixel layouts: planar or
// packed YUV at several bit depths, RGB variants, XYZ, optionally
// rotated or flipped, padded to alignment or power-of-two sizes. vtex
// takes a frame format and produces:
//
//   - a fragment shader snippet declaring the plane textures and
//     defining vec4 vtex_sample(vec2), which samples them and returns a
//     normalized full-range RGB color;
//   - a per-frame 2x3 affine matrix mapping picture coordinates to
//     texture coordinates, accounting for padding, orientation and any
//     platform-supplied transform.
//
// The caller owns shader compilation, linking and drawing. vtex drives
// the GPU only through the narrow API interface: resolving uniform
// locations after linking, then binding textures and uploading uniforms
// every frame.
//
// # Input modes
//
// A sampler is created in one of two modes, fixed for its lifetime:
//
//   - Frame-driven ([NewFromInterop]): decoded frames are passed to
//     UpdateFrame; an [Interop] collaborator uploads the planes.
//   - Texture-driven ([NewFromTextures]): the caller uploads textures
//     itself and passes the handles to UpdateTextures.
//
// # Quick start
//
//	s, err := vtex.NewFromTextures(api, caps, format, vtex.Options{})
//	if err != nil { ... }
//	src := s.Shader()
//	program := compileAndLink(src.Extensions, src.Body) // caller-owned
//	if err := s.FetchLocations(program); err != nil { ... }
//
//	// every frame:
//	s.UpdateTextures(texs, widths, heights)
//	s.Load()
//	draw()
//
// # Concurrency
//
// A sampler is bound to the GPU rendering context of one thread and
// must not be used concurrently. No operation blocks.
package vtex

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
