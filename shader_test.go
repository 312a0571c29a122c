package vtex

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/vtex/chroma"
)

// buildShader constructs a sampler and returns its generated source.
func buildShader(t *testing.T, format FrameFormat, caps Caps, target TextureTarget,
	opts Options) (*Sampler, ShaderSource) {

	t.Helper()
	var s *Sampler
	var err error
	if target == Tex2D {
		s, err = NewFromTextures(newFakeAPI(), caps, format, opts)
	} else {
		interop := newFakeInterop(t, format, caps)
		interop.target = target
		s, err = NewFromInterop(interop, opts)
	}
	if err != nil {
		t.Fatalf("creating sampler: %v", err)
	}
	t.Cleanup(s.Close)
	return s, s.Shader()
}

func wantContains(t *testing.T, body, sub string) {
	t.Helper()
	if !strings.Contains(body, sub) {
		t.Errorf("shader body missing %q:\n%s", sub, body)
	}
}

func wantNotContains(t *testing.T, body, sub string) {
	t.Helper()
	if strings.Contains(body, sub) {
		t.Errorf("shader body unexpectedly contains %q:\n%s", sub, body)
	}
}

func TestShaderPlanarYUV(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D, Options{})

	if src.Extensions != "" {
		t.Errorf("Extensions = %q, want none", src.Extensions)
	}
	wantContains(t, src.Body, "uniform sampler2D Textures[3];")
	wantContains(t, src.Body, "uniform mat4 ConvMatrix;")
	wantContains(t, src.Body, "vec4 vtex_sample(vec2 tex_coords)")
	wantContains(t, src.Body, "texture2D(Textures[0], tex_coords).r")
	wantContains(t, src.Body, "texture2D(Textures[2], tex_coords).r")
	wantContains(t, src.Body, "ConvMatrix * pixel")
	wantNotContains(t, src.Body, "TexSizes")
}

func TestShaderBiplanarSwizzles(t *testing.T) {
	t.Run("texture_rg", func(t *testing.T) {
		_, src := buildShader(t, testFormat(chroma.NV12, 64, 64),
			Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D, Options{})
		wantContains(t, src.Body, "texture2D(Textures[0], tex_coords).r,")
		wantContains(t, src.Body, "texture2D(Textures[1], tex_coords).rg,")
	})
	t.Run("luminance_alpha", func(t *testing.T) {
		_, src := buildShader(t, testFormat(chroma.NV12, 64, 64),
			Caps{SupportsNPOT: true, HasTextureRG: false}, Tex2D, Options{})
		wantContains(t, src.Body, "texture2D(Textures[0], tex_coords).x,")
		wantContains(t, src.Body, "texture2D(Textures[1], tex_coords).xa,")
	})
}

func TestShaderPackedSwizzle(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.UYVY, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D, Options{})
	wantContains(t, src.Body, "uniform sampler2D Textures[1];")
	wantContains(t, src.Body, "texture2D(Textures[0], tex_coords).grb,")
}

func TestShaderRectangleTarget(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, TexRect, Options{})
	wantContains(t, src.Body, "uniform sampler2DRect Textures[3];")
	wantContains(t, src.Body, "uniform vec2 TexSizes[3];")
	wantContains(t, src.Body, "texture2DRect(Textures[1], TexSizes[1] * tex_coords).r")
}

func TestShaderExternalOES(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.RGBA, 64, 64),
		Caps{SupportsNPOT: true}, TexExternalOES, Options{})
	if !strings.Contains(src.Extensions, "GL_OES_EGL_image_external") {
		t.Errorf("Extensions = %q, want the OES external image extension", src.Extensions)
	}
	wantContains(t, src.Body, "uniform samplerExternalOES Textures[1];")
}

func TestShaderRGBPassthrough(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.RGBA, 64, 64),
		Caps{SupportsNPOT: true}, Tex2D, Options{})
	wantContains(t, src.Body, "vec4 result = texture2D(Textures[0], tex_coords);")
	wantNotContains(t, src.Body, "ConvMatrix")
}

func TestShaderDirect(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D,
		Options{ExposePlanes: true})
	wantContains(t, src.Body, "uniform sampler2D Texture;")
	wantContains(t, src.Body, "return texture2D(Texture, tex_coords);")
	wantNotContains(t, src.Body, "ConvMatrix")
	wantNotContains(t, src.Body, "TexSize;")
}

func TestShaderDirectRectangle(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, TexRect,
		Options{ExposePlanes: true})
	wantContains(t, src.Body, "uniform sampler2DRect Texture;")
	wantContains(t, src.Body, "uniform vec2 TexSize;")
	wantContains(t, src.Body, "tex_coords = TexSize * tex_coords;")
}

func TestShaderXYZ(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.XYZ12, 64, 64),
		Caps{SupportsNPOT: true}, Tex2D, Options{})
	wantContains(t, src.Body, "xyz_gamma")
	wantContains(t, src.Body, "matrix_xyz_rgb")
	wantContains(t, src.Body, "clamp(v_out, 0.0, 1.0)")
	wantContains(t, src.Body, "vec4 vtex_sample(vec2 tex_coords)")
}

// fakeMapper is a ColorMapper returning a fixed fragment.
type fakeMapper struct {
	frag *ShaderFragment
	err  error
}

func (m fakeMapper) MapShader(FrameFormat) (*ShaderFragment, error) {
	return m.frag, m.err
}

func toneMapFragment() *ShaderFragment {
	return &ShaderFragment{
		Name: "tone_map",
		GLSL: "vec4 tone_map(vec4 c) { return c * Exposure; }\n",
		Variables: []FragmentVar{
			{
				Name:     "Exposure",
				GLSLType: "float",
				Value:    UniformValue{MatDim: 1, VecDim: 1, Data: []float32{1.5}},
			},
			{
				Name:     "Gamut",
				GLSLType: "mat3",
				Value: UniformValue{MatDim: 3, VecDim: 3,
					Data: []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}},
			},
		},
	}
}

func TestShaderColorMapper(t *testing.T) {
	s, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D,
		Options{ColorMapper: fakeMapper{frag: toneMapFragment()}})

	wantContains(t, src.Body, "uniform float Exposure;")
	wantContains(t, src.Body, "uniform mat3 Gamut;")
	wantContains(t, src.Body, "vec4 tone_map(vec4 c)")
	wantContains(t, src.Body, "result = tone_map(result);")

	api := newFakeAPI()
	s.api = api
	if err := s.FetchLocations(1); err != nil {
		t.Fatalf("FetchLocations: %v", err)
	}
	s.Load()

	if got := api.floats[api.loc(t, "Exposure")]; len(got) != 1 || got[0] != 1.5 {
		t.Errorf("Exposure upload = %v, want [1.5]", got)
	}
	if got := api.mats[api.loc(t, "Gamut")]; len(got) != 9 {
		t.Errorf("Gamut upload = %d floats, want 9", len(got))
	}
}

func TestShaderColorMapperOptimizedOutUniform(t *testing.T) {
	s, _ := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D,
		Options{ColorMapper: fakeMapper{frag: toneMapFragment()}})

	api := newFakeAPI()
	api.missing["Exposure"] = true
	s.api = api

	// Mapper uniforms are allowed to be optimized out of the program.
	if err := s.FetchLocations(1); err != nil {
		t.Fatalf("FetchLocations: %v", err)
	}
	s.Load()
	if _, ok := api.locs["Exposure"]; ok {
		t.Errorf("missing uniform was assigned a location")
	}
}

func TestShaderColorMapperRejected(t *testing.T) {
	frag := toneMapFragment()
	frag.VertexAttribs = 1
	_, err := NewFromTextures(newFakeAPI(), Caps{HasTextureRG: true},
		testFormat(chroma.I420, 64, 64),
		Options{ColorMapper: fakeMapper{frag: frag}})
	if !errors.Is(err, ErrFragmentUnsupported) {
		t.Errorf("error = %v, want ErrFragmentUnsupported", err)
	}
}

func TestShaderColorMapperSkippedForPlanes(t *testing.T) {
	_, src := buildShader(t, testFormat(chroma.I420, 64, 64),
		Caps{SupportsNPOT: true, HasTextureRG: true}, Tex2D,
		Options{ExposePlanes: true, ColorMapper: fakeMapper{frag: toneMapFragment()}})
	wantNotContains(t, src.Body, "tone_map")
}
