package vtex

import (
	"errors"
	"fmt"
)

// ErrFragmentUnsupported is returned when a color mapper produces a
// shader fragment requiring features the sampler cannot provide.
var ErrFragmentUnsupported = errors.New("vtex: color mapper fragment requires unsupported resources")

// ColorMapper is an optional collaborator appending a color-mapping
// stage (tone mapping, gamut conversion, dithering) to generated
// shaders. It is injected at construction; a sampler without one simply
// emits no mapping stage.
type ColorMapper interface {
	// MapShader builds the mapping stage for a source format. The
	// returned fragment must define a GLSL function consuming and
	// producing a single vec4 color.
	MapShader(format FrameFormat) (*ShaderFragment, error)
}

// ShaderFragment is a pre-finalized piece of fragment shader code
// supplied by a ColorMapper.
type ShaderFragment struct {
	// Name is the GLSL function wrapping the sampled color:
	// result = Name(result).
	Name string

	// GLSL is the function definition source, without uniform
	// declarations.
	GLSL string

	// Variables are the uniforms the fragment reads. The sampler emits
	// their declarations, resolves their locations at link time and
	// uploads their values every frame.
	Variables []FragmentVar

	// VertexAttribs and Descriptors count resources the fragment would
	// need beyond plain uniforms. The sampler supports neither and
	// rejects fragments declaring them.
	VertexAttribs int
	Descriptors   int
}

// FragmentVar is one uniform consumed by a ShaderFragment.
type FragmentVar struct {
	// Name is the uniform name, unique within the fragment.
	Name string

	// GLSLType is the declared type ("float", "vec3", "mat4", ...).
	GLSLType string

	// Value holds the float data uploaded each frame.
	Value UniformValue
}

// UniformValue is a float scalar, vector or square matrix value.
type UniformValue struct {
	// MatDim is the matrix dimension: 1 for scalars and vectors,
	// 2..4 for mat2..mat4.
	MatDim int

	// VecDim is the vector dimension: 1..4. Square matrices have
	// VecDim == MatDim.
	VecDim int

	// Data is the value in column-major order, MatDim*VecDim floats.
	Data []float32
}

// validateFragment checks that a fragment only needs what the sampler
// can provide.
func validateFragment(frag *ShaderFragment) error {
	if frag.VertexAttribs != 0 {
		return fmt.Errorf("%w: %d vertex attributes", ErrFragmentUnsupported,
			frag.VertexAttribs)
	}
	if frag.Descriptors != 0 {
		return fmt.Errorf("%w: %d descriptors", ErrFragmentUnsupported,
			frag.Descriptors)
	}
	return nil
}

// loadFragmentVars uploads the fragment uniforms, skipping locations the
// GL linker optimized out and non-square matrix shapes, which the upload
// path does not handle.
func loadFragmentVars(api API, vars []FragmentVar, locs []UniformLocation) {
	for i, v := range vars {
		loc := locs[i]
		if loc == LocationNone {
			continue
		}
		val := v.Value
		if val.MatDim > 1 && val.MatDim != val.VecDim {
			continue
		}
		f := val.Data
		switch val.MatDim {
		case 4:
			api.UniformMatrix4fv(loc, f)
		case 3:
			api.UniformMatrix3fv(loc, f)
		case 2:
			api.UniformMatrix2fv(loc, f)
		case 1:
			switch val.VecDim {
			case 1:
				api.Uniform1f(loc, f[0])
			case 2:
				api.Uniform2f(loc, f[0], f[1])
			case 3:
				api.Uniform3f(loc, f[0], f[1], f[2])
			case 4:
				api.Uniform4f(loc, f[0], f[1], f[2], f[3])
			}
		}
	}
}
