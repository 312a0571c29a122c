package vtex

// TextureID is an opaque handle to a GPU texture object.
type TextureID uint32

// ProgramID is an opaque handle to a linked shader program.
type ProgramID uint32

// UniformLocation identifies a uniform within a linked program.
// LocationNone means the uniform was not found (or was optimized out).
type UniformLocation int32

// LocationNone is the location reported for an unknown uniform.
const LocationNone UniformLocation = -1

// TextureTarget selects the texture binding target, which decides the
// GLSL sampler type and lookup function used by generated shaders.
type TextureTarget uint8

const (
	// Tex2D is a standard 2D texture with normalized coordinates.
	Tex2D TextureTarget = iota
	// TexRect is a rectangle texture; coordinates are in texels.
	TexRect
	// TexExternalOES is an external image texture (GL_OES_EGL_image_external).
	TexExternalOES
)

func (t TextureTarget) String() string {
	switch t {
	case Tex2D:
		return "2D"
	case TexRect:
		return "Rectangle"
	case TexExternalOES:
		return "ExternalOES"
	}
	return "TextureTarget(?)"
}

// API is the GL-style binding a sampler drives. The caller owns shader
// compilation and linking; the sampler only resolves uniform locations
// from the linked program and feeds textures and uniforms every frame.
//
// A sampler calls API methods from the single thread its rendering
// context is bound to; implementations need no internal locking.
type API interface {
	// GetUniformLocation resolves a uniform by name, returning
	// LocationNone if the program has no such uniform.
	GetUniformLocation(program ProgramID, name string) UniformLocation

	Uniform1i(loc UniformLocation, v int32)
	Uniform1f(loc UniformLocation, v float32)
	Uniform2f(loc UniformLocation, x, y float32)
	Uniform3f(loc UniformLocation, x, y, z float32)
	Uniform4f(loc UniformLocation, x, y, z, w float32)

	// UniformMatrixNfv uploads column-major square matrices.
	UniformMatrix2fv(loc UniformLocation, v []float32)
	UniformMatrix3fv(loc UniformLocation, v []float32)
	UniformMatrix4fv(loc UniformLocation, v []float32)

	// ActiveTexture selects texture unit GL_TEXTURE0 + unit.
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, tex TextureID)
	DeleteTextures(texs []TextureID)
}

// Caps describes the capabilities of the GPU context a sampler runs in.
type Caps struct {
	// SupportsNPOT reports non-power-of-two texture support. Without it,
	// plane textures are over-allocated to the next power of two and the
	// coordinate-map matrix compensates.
	SupportsNPOT bool

	// HasTextureRG reports GL_ARB_texture_rg. Without it, one- and
	// two-channel planes are stored as luminance/luminance-alpha and the
	// shader swizzles change accordingly.
	HasTextureRG bool
}
