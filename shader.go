package vtex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/vtex/chroma"
)

// ErrMissingUniform is returned by FetchLocations when the linked
// program lacks a uniform the generated shader declares.
var ErrMissingUniform = errors.New("vtex: uniform not found in program")

// ShaderSource is the generated fragment shader code. The caller embeds
// it in a full fragment shader, compiles and links it, then hands the
// program back through Sampler.FetchLocations.
//
// The generated code defines:
//
//	vec4 vtex_sample(vec2 tex_coords);
//
// which samples the video planes at picture coordinates already mapped
// through the sampler's composite matrix, and returns a full-range RGB
// color.
type ShaderSource struct {
	// Extensions are #extension lines to prepend to the shader,
	// if any are required by the texture target.
	Extensions string

	// Body is the declarations and the vtex_sample definition.
	Body string
}

// targetNames returns the GLSL sampler type and lookup function for a
// texture target.
func targetNames(target TextureTarget) (samplerType, lookup string) {
	switch target {
	case TexExternalOES:
		return "samplerExternalOES", "texture2D"
	case Tex2D:
		return "sampler2D", "texture2D"
	case TexRect:
		return "sampler2DRect", "texture2DRect"
	}
	panic(fmt.Sprintf("vtex: unknown texture target %d", target))
}

// targetExtensions returns the extension preamble a target requires.
func targetExtensions(target TextureTarget) string {
	if target == TexExternalOES {
		return "#extension GL_OES_EGL_image_external : require\n"
	}
	return ""
}

// swizzlePerTexture resolves the channel swizzle of each plane texture,
// reassembling (Y, U, V) from the physical layout. An unresolvable
// layout is a descriptor-table bug, not a runtime condition.
func swizzlePerTexture(desc *chroma.Description, caps Caps) []string {
	switch desc.PlaneCount {
	case 3:
		return []string{"r", "r", "r"}
	case 2:
		if caps.HasTextureRG {
			return []string{"r", "rg"}
		}
		// Luminance/alpha storage.
		return []string{"x", "xa"}
	case 1:
		if desc.PackedSwizzle == "" {
			panic(fmt.Sprintf("vtex: no swizzle for packed format %s", desc.Format))
		}
		return []string{desc.PackedSwizzle}
	}
	panic(fmt.Sprintf("vtex: no swizzle rule for %d planes", desc.PlaneCount))
}

// samplerOps is the per-variant pair of hooks: resolving uniform
// locations once the program is linked, and binding textures and
// uploading uniforms every frame.
type samplerOps interface {
	fetchLocations(s *Sampler, program ProgramID) error
	load(s *Sampler)
}

// initDirectShader emits the single-plane passthrough shader used when
// individual planes are exposed without chroma conversion.
func (s *Sampler) initDirectShader() {
	samplerType, lookup := targetNames(s.target)

	var b strings.Builder
	fmt.Fprintf(&b, "uniform %s Texture;\n", samplerType)
	if s.target == TexRect {
		b.WriteString("uniform vec2 TexSize;\n")
	}
	b.WriteString("vec4 vtex_sample(vec2 tex_coords) {\n")
	if s.target == TexRect {
		// Rectangle texture coordinates are in texels, not normalized.
		b.WriteString(" tex_coords = TexSize * tex_coords;\n")
	}
	fmt.Fprintf(&b, "  return %s(Texture, tex_coords);\n", lookup)
	b.WriteString("}\n")

	s.shader = ShaderSource{
		Extensions: targetExtensions(s.target),
		Body:       b.String(),
	}
	s.ops = directOps{}
}

type directOps struct{}

func (directOps) fetchLocations(s *Sampler, program ProgramID) error {
	s.uloc.textures[0] = s.api.GetUniformLocation(program, "Texture")
	if s.uloc.textures[0] == LocationNone {
		return fmt.Errorf("%w: Texture", ErrMissingUniform)
	}
	if s.target == TexRect {
		s.uloc.texSizes[0] = s.api.GetUniformLocation(program, "TexSize")
		if s.uloc.texSizes[0] == LocationNone {
			return fmt.Errorf("%w: TexSize", ErrMissingUniform)
		}
	}
	return nil
}

func (directOps) load(s *Sampler) {
	plane := s.plane

	s.api.Uniform1i(s.uloc.textures[0], 0)
	s.api.ActiveTexture(0)
	s.api.BindTexture(s.target, s.textures[plane])

	if s.target == TexRect {
		s.api.Uniform2f(s.uloc.texSizes[0],
			float32(s.texWidths[plane]), float32(s.texHeights[plane]))
	}
}

// xyzShaderBody converts 12-bit XYZ to gamma-encoded RGB in 3 steps:
// XYZ gamma decode, XYZ-to-RGB matrix, reverse RGB gamma.
const xyzShaderBody = "uniform sampler2D Textures[1];" +
	"uniform vec4 xyz_gamma = vec4(2.6);" +
	"uniform vec4 rgb_gamma = vec4(1.0/2.2);" +
	// The matrix is filled column by column, not row by row.
	"uniform mat4 matrix_xyz_rgb = mat4(" +
	"    3.240454 , -0.9692660, 0.0556434, 0.0," +
	"   -1.5371385,  1.8760108, -0.2040259, 0.0," +
	"    -0.4985314, 0.0415560, 1.0572252,  0.0," +
	"    0.0,      0.0,         0.0,        1.0 " +
	" );" +
	"vec4 vtex_sample(vec2 tex_coords)\n" +
	"{ " +
	" vec4 v_in, v_out;" +
	" v_in  = texture2D(Textures[0], tex_coords);\n" +
	" v_in = pow(v_in, xyz_gamma);" +
	" v_out = matrix_xyz_rgb * v_in ;" +
	" v_out = pow(v_out, rgb_gamma) ;" +
	" v_out = clamp(v_out, 0.0, 1.0) ;" +
	" return v_out;" +
	"}\n"

func (s *Sampler) initXYZShader() {
	s.shader = ShaderSource{Body: xyzShaderBody}
	s.ops = xyzOps{}
}

type xyzOps struct{}

func (xyzOps) fetchLocations(s *Sampler, program ProgramID) error {
	s.uloc.textures[0] = s.api.GetUniformLocation(program, "Textures[0]")
	if s.uloc.textures[0] == LocationNone {
		return fmt.Errorf("%w: Textures[0]", ErrMissingUniform)
	}
	return nil
}

func (xyzOps) load(s *Sampler) {
	s.api.Uniform1i(s.uloc.textures[0], 0)
	s.api.ActiveTexture(0)
	s.api.BindTexture(s.target, s.textures[0])
}

// initPlanarShader emits the general shader: one texture per plane,
// optional YUV conversion matrix, optional color-mapping stage.
func (s *Sampler) initPlanarShader() error {
	desc := s.desc

	var swizzles []string
	if desc.IsYUV {
		s.convMatrix = yuvConversionMatrix(desc, s.format.Space)
		s.yuvColor = true
		swizzles = swizzlePerTexture(desc, s.caps)
	}

	samplerType, lookup := targetNames(s.target)

	var b strings.Builder
	fmt.Fprintf(&b, "uniform %s Textures[%d];\n", samplerType, s.texCount)

	if s.mapper != nil {
		for _, v := range s.mapper.fragment.Variables {
			fmt.Fprintf(&b, "uniform %s %s;\n", v.GLSLType, v.Name)
		}
		b.WriteString(s.mapper.fragment.GLSL)
	}

	if s.target == TexRect {
		fmt.Fprintf(&b, "uniform vec2 TexSizes[%d];\n", s.texCount)
	}

	if desc.IsYUV {
		b.WriteString("uniform mat4 ConvMatrix;\n")
	}

	b.WriteString("vec4 vtex_sample(vec2 tex_coords) {\n")

	colorCount := 0
	if desc.IsYUV {
		b.WriteString(" vec4 pixel = vec4(\n")
		for i := 0; i < s.texCount; i++ {
			swizzle := swizzles[i]
			colorCount += len(swizzle)
			if s.target == TexRect {
				// Rectangle coordinates are in texels, not normalized.
				fmt.Fprintf(&b, "  %s(Textures[%d], TexSizes[%d] * tex_coords).%s,\n",
					lookup, i, i, swizzle)
			} else {
				fmt.Fprintf(&b, "  %s(Textures[%d], tex_coords).%s,\n",
					lookup, i, swizzle)
			}
		}
		b.WriteString("  1.0);\n")
		b.WriteString(" vec4 result = ConvMatrix * pixel;\n")
	} else {
		if s.target == TexRect {
			b.WriteString(" tex_coords *= TexSizes[0];\n")
		}
		fmt.Fprintf(&b, " vec4 result = %s(Textures[0], tex_coords);\n", lookup)
		colorCount = 1
	}

	if desc.IsYUV && colorCount != 3 {
		panic(fmt.Sprintf("vtex: %s swizzles yield %d color components, want 3",
			desc.Format, colorCount))
	}

	if s.mapper != nil {
		fmt.Fprintf(&b, " result = %s(result);\n", s.mapper.fragment.Name)
	}

	b.WriteString(" return result;\n}\n")

	s.shader = ShaderSource{
		Extensions: targetExtensions(s.target),
		Body:       b.String(),
	}
	s.ops = planarOps{}
	return nil
}

type planarOps struct{}

func (planarOps) fetchLocations(s *Sampler, program ProgramID) error {
	if s.yuvColor {
		s.uloc.convMatrix = s.api.GetUniformLocation(program, "ConvMatrix")
		if s.uloc.convMatrix == LocationNone {
			return fmt.Errorf("%w: ConvMatrix", ErrMissingUniform)
		}
	}

	for i := 0; i < s.texCount; i++ {
		name := fmt.Sprintf("Textures[%d]", i)
		s.uloc.textures[i] = s.api.GetUniformLocation(program, name)
		if s.uloc.textures[i] == LocationNone {
			return fmt.Errorf("%w: %s", ErrMissingUniform, name)
		}

		if s.target == TexRect {
			name = fmt.Sprintf("TexSizes[%d]", i)
			s.uloc.texSizes[i] = s.api.GetUniformLocation(program, name)
			if s.uloc.texSizes[i] == LocationNone {
				return fmt.Errorf("%w: %s", ErrMissingUniform, name)
			}
		}
	}

	if s.mapper != nil {
		// Mapper uniforms may legitimately be optimized out; keep
		// LocationNone and skip them at load time.
		for i, v := range s.mapper.fragment.Variables {
			s.mapper.locations[i] = s.api.GetUniformLocation(program, v.Name)
		}
	}
	return nil
}

func (planarOps) load(s *Sampler) {
	if s.yuvColor {
		s.api.UniformMatrix4fv(s.uloc.convMatrix, s.convMatrix[:])
	}

	for i := 0; i < s.texCount; i++ {
		s.api.Uniform1i(s.uloc.textures[i], int32(i))
		s.api.ActiveTexture(i)
		s.api.BindTexture(s.target, s.textures[i])
	}

	if s.target == TexRect {
		for i := 0; i < s.texCount; i++ {
			s.api.Uniform2f(s.uloc.texSizes[i],
				float32(s.texWidths[i]), float32(s.texHeights[i]))
		}
	}

	if s.mapper != nil {
		loadFragmentVars(s.api, s.mapper.fragment.Variables, s.mapper.locations)
	}
}
