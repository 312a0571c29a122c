package vtex

import (
	"fmt"

	"github.com/gogpu/vtex/chroma"
)

const maxPlanes = chroma.MaxPlanes

// Options configures sampler creation.
type Options struct {
	// ExposePlanes makes vtex_sample expose a single plane without
	// chroma conversion, selected with SelectPlane. Used by filters
	// that process planes independently.
	ExposePlanes bool

	// ColorMapper optionally appends a color-mapping stage (tone
	// mapping, gamut conversion) to the generated shader.
	ColorMapper ColorMapper
}

// mapperState is the resolved color-mapping stage of one sampler.
type mapperState struct {
	fragment  *ShaderFragment
	locations []UniformLocation
}

type uniformLocations struct {
	textures   [maxPlanes]UniformLocation
	texSizes   [maxPlanes]UniformLocation // only for rectangle targets
	convMatrix UniformLocation
}

type visibleRegion struct {
	x, y, w, h uint32
}

// Point is a 2D coordinate.
type Point struct {
	X, Y float32
}

// Sampler generates the fragment shader code sampling a video source
// and keeps the per-frame GPU state (textures, conversion matrix,
// picture-to-texture coordinate transform) it needs.
//
// A sampler supports two kinds of input, fixed at creation:
//   - created with NewFromInterop, it receives decoded frames through
//     UpdateFrame and delegates the upload to the interop;
//   - created with NewFromTextures (no interop), it receives already
//     uploaded texture handles through UpdateTextures.
//
// A sampler is bound to the rendering context of a single thread and
// must not be used concurrently.
type Sampler struct {
	api  API
	caps Caps

	format   FrameFormat
	desc     *chroma.Description
	texCount int
	target   TextureTarget

	interop Interop

	yuvColor   bool
	convMatrix Mat4

	shader ShaderSource
	ops    samplerOps
	uloc   uniformLocations
	mapper *mapperState

	textures    [maxPlanes]TextureID
	texWidths   [maxPlanes]int32
	texHeights  [maxPlanes]int32
	visWidths   [maxPlanes]int32
	visHeights  [maxPlanes]int32
	ownTextures bool

	// ExposePlanes state: the plane vtex_sample reads.
	exposePlanes bool
	plane        int

	lastVisible visibleRegion

	// All matrices are stored in column-major order.
	mtxOrientation Mat3x2
	mtxCoordsMap   Mat3x2

	mtxTransform        Mat3x2
	mtxTransformDefined bool

	// mtxAll maps picture coordinates to texture coordinates:
	// transform * coordsMap * orientation, the intermediate matrices
	// implicitly expanded to 3x3 with [0 0 1] as the last row.
	mtxAll        Mat3x2
	mtxAllDefined bool
	mtxAllChanged bool // since the previous frame
}

// NewFromInterop creates a frame-driven sampler: frames are passed to
// UpdateFrame and the interop uploads them into plane textures.
func NewFromInterop(interop Interop, opts Options) (*Sampler, error) {
	return newSampler(interop.API(), interop.Caps(), interop,
		interop.Format(), interop.TextureTarget(), opts)
}

// NewFromTextures creates a texture-driven sampler: the caller uploads
// textures itself and hands the handles to UpdateTextures every frame.
// The texture target is always 2D.
func NewFromTextures(api API, caps Caps, format FrameFormat, opts Options) (*Sampler, error) {
	return newSampler(api, caps, nil, format, Tex2D, opts)
}

func newSampler(api API, caps Caps, interop Interop, format FrameFormat,
	target TextureTarget, opts Options) (*Sampler, error) {

	desc, err := chroma.Describe(format.Chroma)
	if err != nil {
		return nil, err
	}

	if interop != nil && interop.PlaneCount() != desc.PlaneCount {
		panic(fmt.Sprintf("vtex: interop produces %d planes, %s has %d",
			interop.PlaneCount(), format.Chroma, desc.PlaneCount))
	}

	s := &Sampler{
		api:            api,
		caps:           caps,
		format:         format,
		desc:           desc,
		texCount:       desc.PlaneCount,
		target:         target,
		interop:        interop,
		exposePlanes:   opts.ExposePlanes,
		mtxOrientation: orientationMatrix(format.Orientation),
		mtxCoordsMap:   Identity3x2(),
	}
	s.uloc.convMatrix = LocationNone

	// Mapping (and the faithfulness warning) only applies to the general
	// planar path: exposed planes are raw data, XYZ12 has its own fixed
	// conversion.
	planar := !opts.ExposePlanes && format.Chroma != chroma.XYZ12
	if opts.ColorMapper != nil && planar {
		frag, err := opts.ColorMapper.MapShader(format)
		if err != nil {
			return nil, fmt.Errorf("vtex: color mapper: %w", err)
		}
		if err := validateFragment(frag); err != nil {
			return nil, err
		}
		locs := make([]UniformLocation, len(frag.Variables))
		for i := range locs {
			locs[i] = LocationNone
		}
		s.mapper = &mapperState{fragment: frag, locations: locs}
	} else if planar && (format.Primaries == PrimariesBT2020 || format.Transfer == TransferPQ) {
		// No warning for HLG because it degrades gracefully on SDR.
		Logger().Warn("wide gamut or HDR signal without a color mapper, "+
			"colors may be off",
			"chroma", format.Chroma, "primaries", format.Primaries,
			"transfer", format.Transfer)
	}

	switch {
	case opts.ExposePlanes:
		s.initDirectShader()
	case format.Chroma == chroma.XYZ12:
		s.initXYZShader()
	default:
		if err := s.initPlanarShader(); err != nil {
			return nil, err
		}
	}

	if interop != nil {
		for i := 0; i < s.texCount; i++ {
			rw, rh := interop.PlaneScale(i)
			w := rw.Scale(int32(format.VisibleWidth))
			h := rh.Scale(int32(format.VisibleHeight))
			s.visWidths[i] = w
			s.visHeights[i] = h
			if caps.SupportsNPOT {
				s.texWidths[i] = w
				s.texHeights[i] = h
			} else {
				s.texWidths[i] = alignPOT(w)
				s.texHeights[i] = alignPOT(h)
			}
		}

		if !interop.OwnsTextures() {
			textures, err := interop.GenerateTextures(
				s.texWidths[:s.texCount], s.texHeights[:s.texCount])
			if err != nil {
				return nil, fmt.Errorf("vtex: generating textures: %w", err)
			}
			copy(s.textures[:], textures)
			s.ownTextures = true
		}
	}

	Logger().Debug("sampler created",
		"chroma", format.Chroma,
		"planes", s.texCount,
		"target", target,
		"frameDriven", interop != nil,
		"exposePlanes", opts.ExposePlanes)

	return s, nil
}

// Shader returns the generated fragment shader code.
func (s *Sampler) Shader() ShaderSource {
	return s.shader
}

// Format returns the format of the pictures the sampler consumes.
func (s *Sampler) Format() FrameFormat {
	return s.format
}

// TexCount returns the number of plane textures the shader samples.
func (s *Sampler) TexCount() int {
	return s.texCount
}

// TextureSize returns the allocated dimensions of a plane texture.
func (s *Sampler) TextureSize(plane int) (w, h int32) {
	return s.texWidths[plane], s.texHeights[plane]
}

// FetchLocations resolves the uniform locations of the generated shader
// within the linked program. It must be called once after linking,
// before the first Load.
func (s *Sampler) FetchLocations(program ProgramID) error {
	return s.ops.fetchLocations(s, program)
}

// Load binds the plane textures and uploads the shader uniforms. Call
// every frame, after UpdateFrame or UpdateTextures.
func (s *Sampler) Load() {
	s.ops.load(s)
}

// SelectPlane chooses the plane vtex_sample exposes. Only meaningful
// for samplers created with ExposePlanes.
func (s *Sampler) SelectPlane(plane int) {
	s.plane = plane
}

// updateMatrixAll recomputes the composite picture-to-texture matrix
// from its three inputs.
func (s *Sampler) updateMatrixAll() {
	mtx := s.mtxCoordsMap.Mul(s.mtxOrientation)
	if s.mtxTransformDefined {
		mtx = s.mtxTransform.Mul(mtx)
	}
	s.mtxAll = mtx
}

// UpdateFrame uploads a decoded frame through the interop and refreshes
// the coordinate matrices. Only valid on frame-driven samplers.
//
// Upload failures are reported to the caller; the sampler does not
// retry. The matrices are refreshed regardless, so a caller choosing to
// render anyway observes consistent coordinates.
func (s *Sampler) UpdateFrame(frame *Frame) error {
	if s.interop == nil {
		panic("vtex: UpdateFrame called on a texture-driven sampler")
	}

	source := frame.Format
	mtxChanged := false

	if !s.mtxAllDefined ||
		source.VisibleX != s.lastVisible.x ||
		source.VisibleY != s.lastVisible.y ||
		source.VisibleWidth != s.lastVisible.w ||
		source.VisibleHeight != s.lastVisible.h {

		// The transformation is the same for all planes, even with
		// power-of-two textures.
		scaleW := float32(s.texWidths[0])
		scaleH := float32(s.texHeights[0])

		left := float32(source.VisibleX) / scaleW
		top := float32(source.VisibleY) / scaleH
		right := float32(source.VisibleX+source.VisibleWidth) / scaleW
		bottom := float32(source.VisibleY+source.VisibleHeight) / scaleH

		// Map picture coordinates (in [0, 1]) to the texture region
		// where the picture is actually stored, skipping the padding:
		//
		//	matrix = / (r-l)   0     l \
		//	         \   0   (b-t)   t /
		//
		// In particular, (0, 0) maps to (left, top) and (1, 1) maps to
		// (right, bottom). Stored in column-major order.
		s.mtxCoordsMap = Mat3x2{right - left, 0, 0, bottom - top, left, top}

		mtxChanged = true
		s.lastVisible = visibleRegion{
			x: source.VisibleX, y: source.VisibleY,
			w: source.VisibleWidth, h: source.VisibleHeight,
		}
	}

	err := s.interop.UpdateTextures(s.textures[:s.texCount],
		s.visWidths[:s.texCount], s.visHeights[:s.texCount], frame)

	if tm, ok := s.interop.TransformMatrix(); ok {
		if !s.mtxTransformDefined || tm != s.mtxTransform {
			s.mtxTransform = tm
			s.mtxTransformDefined = true
			mtxChanged = true
		}
	} else if s.mtxTransformDefined {
		s.mtxTransformDefined = false
		mtxChanged = true
	}

	if !s.mtxAllDefined || mtxChanged {
		s.updateMatrixAll()
		s.mtxAllDefined = true
		s.mtxAllChanged = true
	} else {
		s.mtxAllChanged = false
	}

	return err
}

// UpdateTextures hands already uploaded texture handles to the sampler.
// Only valid on texture-driven samplers. The composite matrix is the
// identity, defined on the first call and never changed afterwards.
func (s *Sampler) UpdateTextures(textures []TextureID, widths, heights []int32) error {
	if s.interop != nil {
		panic("vtex: UpdateTextures called on a frame-driven sampler")
	}
	if len(textures) < s.texCount || len(widths) < s.texCount || len(heights) < s.texCount {
		panic(fmt.Sprintf("vtex: got %d textures, need %d", len(textures), s.texCount))
	}

	if !s.mtxAllDefined {
		s.mtxAll = Identity3x2()
		s.mtxAllDefined = true
		s.mtxAllChanged = true
	} else {
		s.mtxAllChanged = false
	}

	copy(s.textures[:s.texCount], textures)
	copy(s.texWidths[:s.texCount], widths)
	copy(s.texHeights[:s.texCount], heights)

	return nil
}

// PicToTexCoords maps picture coordinates (in [0, 1]) through the
// composite matrix to texture sampling coordinates.
func (s *Sampler) PicToTexCoords(coords []Point) []Point {
	out := make([]Point, len(coords))
	m := s.mtxAll
	for i, p := range coords {
		x, y := m.Apply(p.X, p.Y)
		out[i] = Point{X: x, Y: y}
	}
	return out
}

// PicToTexMatrix returns the composite picture-to-texture matrix and
// whether it has been defined by an update yet.
func (s *Sampler) PicToTexMatrix() (Mat3x2, bool) {
	return s.mtxAll, s.mtxAllDefined
}

// DirectionMatrix returns the two column vectors of the composite
// matrix, each normalized to unit length. The translation and scale are
// discarded: only the texture axis directions remain, which renderers
// use to orient direction-dependent effects.
func (s *Sampler) DirectionMatrix() Mat2 {
	if !s.mtxAllDefined {
		panic("vtex: DirectionMatrix before the first update")
	}
	return s.mtxAll.direction()
}

// MustRecomputeCoords reports whether the composite matrix changed with
// the last update, requiring consumers to re-derive anything computed
// from it.
func (s *Sampler) MustRecomputeCoords() bool {
	return s.mtxAllChanged
}

// Close releases the plane textures the sampler generated for itself.
// Interop-owned and caller-owned textures are not touched.
func (s *Sampler) Close() {
	if s.ownTextures {
		s.api.DeleteTextures(s.textures[:s.texCount])
		s.ownTextures = false
	}
}
