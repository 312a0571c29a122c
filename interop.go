package vtex

import "github.com/gogpu/vtex/chroma"

// Interop uploads decoded frames into GPU textures on behalf of a
// frame-driven sampler. It is the boundary to platform-specific texture
// import paths (PBOs, EGL images, zero-copy surfaces).
//
// The interop decides the texture target and the output format the
// sampler sees, which may differ from the decoder format when the
// interop converts during upload.
type Interop interface {
	// API returns the GL binding of the context the interop uploads into.
	API() API

	// Caps returns the capabilities of that context.
	Caps() Caps

	// Format is the format of the pictures as the sampler will see them,
	// after any conversion performed during upload.
	Format() FrameFormat

	// TextureTarget is the target of the textures the interop produces.
	TextureTarget() TextureTarget

	// PlaneCount is the number of plane textures the interop produces.
	// It must agree with the chroma description of Format; the sampler
	// checks at construction.
	PlaneCount() int

	// PlaneScale returns the dimension ratios of a plane's texture
	// relative to the picture's visible size.
	PlaneScale(plane int) (w, h chroma.Ratio)

	// OwnsTextures reports whether the interop allocates and releases
	// plane textures itself. When false, the sampler generates them at
	// construction and deletes them at Close.
	OwnsTextures() bool

	// GenerateTextures allocates one texture per plane with the given
	// dimensions. Only called when OwnsTextures is false.
	GenerateTextures(widths, heights []int32) ([]TextureID, error)

	// UpdateTextures uploads the frame's planes into the textures.
	// Dimensions are the visible plane sizes, not the allocated sizes.
	UpdateTextures(textures []TextureID, widths, heights []int32, frame *Frame) error

	// TransformMatrix returns an additional picture-to-texture transform
	// for the current frame, if the platform supplies one (for example a
	// surface crop/flip matrix). The second result reports presence.
	TransformMatrix() (Mat3x2, bool)
}
