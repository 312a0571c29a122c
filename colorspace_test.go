package vtex

import (
	"math"
	"testing"

	"github.com/gogpu/vtex/chroma"
)

const colorEps = 1e-5

func TestConversionMatrixNeutralGray(t *testing.T) {
	spaces := []struct {
		name  string
		space Space
	}{
		{"BT601", SpaceBT601},
		{"BT709", SpaceBT709},
		{"BT2020", SpaceBT2020},
	}
	ranges := []struct {
		name string
		rng  Range
		// Neutral gray as 8-bit (Y, U, V).
		y, u, v float32
	}{
		{"limited", RangeLimited, 16, 128, 128},
		{"full", RangeFull, 0, 128, 128},
	}
	for _, sp := range spaces {
		for _, r := range ranges {
			t.Run(sp.name+"/"+r.name, func(t *testing.T) {
				m := conversionMatrix(sp.space, r.rng)
				in := [4]float32{r.y / 255, r.u / 255, r.v / 255, 1}
				out := m.Apply(in)
				for i := 0; i < 3; i++ {
					if math.Abs(float64(out[i])) > colorEps {
						t.Errorf("component %d = %v, want 0", i, out[i])
					}
				}
				if out[3] != 1 {
					t.Errorf("w component = %v, want 1", out[3])
				}
			})
		}
	}
}

func TestConversionMatrixPeakWhite(t *testing.T) {
	// Limited-range (235, 128, 128) must decode to RGB (1, 1, 1).
	m := conversionMatrix(SpaceBT709, RangeLimited)
	out := m.Apply([4]float32{235.0 / 255, 128.0 / 255, 128.0 / 255, 1})
	for i := 0; i < 3; i++ {
		if math.Abs(float64(out[i]-1)) > colorEps {
			t.Errorf("component %d = %v, want 1", i, out[i])
		}
	}
}

func TestBitPlacementScale(t *testing.T) {
	tests := []struct {
		format chroma.Format
		scale  float32
		needed bool
	}{
		{chroma.I420, 1, false},
		{chroma.I420P10, 65535.0 / 1023, true},
		{chroma.I420P12, 65535.0 / 4095, true},
		{chroma.I444P16, 1, true}, // container equals sample size
		{chroma.P010, 1, false},   // samples on the most significant bits
		{chroma.P016, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			desc, err := chroma.Describe(tt.format)
			if err != nil {
				t.Fatalf("Describe: %v", err)
			}
			scale, needed := bitPlacementScale(desc)
			if needed != tt.needed {
				t.Fatalf("needed = %v, want %v", needed, tt.needed)
			}
			if needed && math.Abs(float64(scale-tt.scale)) > 1e-3 {
				t.Errorf("scale = %v, want %v", scale, tt.scale)
			}
		})
	}
}

func TestBitPlacementRoundTrip(t *testing.T) {
	// A 10-bit sample stored on the low bits of a 16-bit container
	// normalizes to v/65535; the correction rescales it to v/1023, so
	// the container maximum decodes as the sample maximum.
	desc, err := chroma.Describe(chroma.I420P10)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	scale, needed := bitPlacementScale(desc)
	if !needed {
		t.Fatal("I420P10 needs a bit-placement correction")
	}
	if got := scale * 1023.0 / 65535; math.Abs(float64(got-1)) > 1e-6 {
		t.Errorf("scaled container max = %v, want 1", got)
	}

	// The corrected matrix is the limited-range matrix with its three
	// input columns scaled, leaving the bias column untouched.
	m := yuvConversionMatrix(desc, SpaceBT709)
	want := conversionMatrix(SpaceBT709, RangeLimited)
	for col := 0; col < 3; col++ {
		for row := 0; row < 4; row++ {
			want[col*4+row] *= scale
		}
	}
	if m != want {
		t.Errorf("corrected matrix = %v, want %v", m, want)
	}
}

func swapCols12(m Mat4) Mat4 {
	out := m
	for row := 0; row < 4; row++ {
		out[1*4+row], out[2*4+row] = m[2*4+row], m[1*4+row]
	}
	return out
}

func TestSwapUVIsColumnSwap(t *testing.T) {
	i420, err := chroma.Describe(chroma.I420)
	if err != nil {
		t.Fatalf("Describe(I420): %v", err)
	}
	yv12, err := chroma.Describe(chroma.YV12)
	if err != nil {
		t.Fatalf("Describe(YV12): %v", err)
	}

	plain := yuvConversionMatrix(i420, SpaceBT601)
	swapped := yuvConversionMatrix(yv12, SpaceBT601)

	if swapCols12(plain) != swapped {
		t.Errorf("YV12 matrix is not the I420 matrix with columns 1 and 2 swapped")
	}

	// The swap is self-inverse, bit-exact.
	if swapCols12(swapCols12(plain)) != plain {
		t.Errorf("double column swap did not restore the original matrix")
	}
}

func TestYUVConversionAlwaysLimitedInput(t *testing.T) {
	// Sources tagged full range still decode with the limited-range
	// expansion; only the documented limited-range neutral gray maps
	// to black.
	desc, err := chroma.Describe(chroma.I420)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	m := yuvConversionMatrix(desc, SpaceBT709)
	want := conversionMatrix(SpaceBT709, RangeLimited)
	if m != want {
		t.Errorf("8-bit YUV conversion matrix differs from the limited-range matrix")
	}
}
