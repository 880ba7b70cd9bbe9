package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/menta2k/image-augment/pkg/tensor"
)

// createTestTensor fills a 1×h×w tensor with distinct values per pixel.
func createTestTensor(h, w int) *tensor.Tensor {
	t := tensor.New(1, h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t.Set(0, y, x, float32(y*w+x)/float32(h*w))
		}
	}
	return t
}

func TestAffineGridCorners(t *testing.T) {
	f := AffineGrid(3, 5)

	cx, cy := f.At(0, 0)
	if cx != -1 || cy != -1 {
		t.Errorf("top-left = (%f, %f), want (-1, -1)", cx, cy)
	}
	cx, cy = f.At(2, 4)
	if cx != 1 || cy != 1 {
		t.Errorf("bottom-right = (%f, %f), want (1, 1)", cx, cy)
	}
	cx, cy = f.At(1, 2)
	if cx != 0 || cy != 0 {
		t.Errorf("center = (%f, %f), want (0, 0)", cx, cy)
	}
}

func TestAffineGridDegenerateAxis(t *testing.T) {
	f := AffineGrid(1, 3)
	_, cy := f.At(0, 1)
	if cy != -1 {
		t.Errorf("length-1 axis coordinate = %f, want -1", cy)
	}
}

func TestAffineMultIdentity(t *testing.T) {
	f := AffineGrid(4, 4)
	want := f.Clone()
	AffineMult(f, Identity())
	for i := range f.Data {
		if f.Data[i] != want.Data[i] {
			t.Fatalf("identity changed coordinate %d: %f -> %f", i, want.Data[i], f.Data[i])
		}
	}
}

func TestAffineMultTranslation(t *testing.T) {
	f := NewFlowField(1, 1)
	f.Set(0, 0, 0.25, -0.5)
	m := Matrix{{1, 0, 0.5}, {0, 1, -0.25}, {0, 0, 1}}
	AffineMult(f, m)
	cx, cy := f.At(0, 0)
	if math.Abs(float64(cx)-0.75) > 1e-6 || math.Abs(float64(cy)+0.75) > 1e-6 {
		t.Errorf("translated coordinate = (%f, %f), want (0.75, -0.75)", cx, cy)
	}
}

func TestMatrixMul(t *testing.T) {
	a := Matrix{{2, 0, 0}, {0, 2, 0}, {0, 0, 1}}
	b := Matrix{{1, 0, 3}, {0, 1, 4}, {0, 0, 1}}
	got := a.Mul(b)
	want := Matrix{{2, 0, 6}, {0, 2, 8}, {0, 0, 1}}
	if got != want {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}

func TestIdentityRoundTripNearest(t *testing.T) {
	px := createTestTensor(5, 7)
	out, err := GridSample(px, AffineGrid(5, 7), Options{Mode: ModeNearest, Edge: EdgeBorder})
	if err != nil {
		t.Fatalf("GridSample: %v", err)
	}
	for i := range px.Data {
		if out.Data[i] != px.Data[i] {
			t.Fatalf("element %d changed: %f -> %f", i, px.Data[i], out.Data[i])
		}
	}
}

func TestIdentityRoundTripBilinear(t *testing.T) {
	px := createTestTensor(6, 6)
	out, err := GridSample(px, AffineGrid(6, 6), DefaultOptions())
	if err != nil {
		t.Fatalf("GridSample: %v", err)
	}
	if !out.EqualWithin(px, 1e-4) {
		t.Error("bilinear identity resample drifted beyond tolerance")
	}
}

func TestGridSampleUpsizes(t *testing.T) {
	px := createTestTensor(4, 4)
	out, err := GridSample(px, AffineGrid(8, 8), DefaultOptions())
	if err != nil {
		t.Fatalf("GridSample: %v", err)
	}
	if out.H != 8 || out.W != 8 {
		t.Errorf("output shape = %dx%d, want 8x8", out.H, out.W)
	}
}

func TestNearestZeroFill(t *testing.T) {
	px := createTestTensor(4, 4)
	px.Fill(1)
	// Shift sampling entirely off the left edge.
	f := AffineGrid(4, 4)
	for i := 0; i < len(f.Data); i += 2 {
		f.Data[i] -= 3
	}
	out, err := GridSample(px, f, Options{Mode: ModeNearest, Edge: EdgeZero})
	if err != nil {
		t.Fatalf("GridSample: %v", err)
	}
	for y := 0; y < 4; y++ {
		if v := out.At(0, y, 0); v != 0 {
			t.Errorf("out-of-range sample at row %d = %f, want 0", y, v)
		}
	}
}

func TestNearestBorderClamps(t *testing.T) {
	px := createTestTensor(4, 4)
	f := AffineGrid(4, 4)
	for i := 0; i < len(f.Data); i += 2 {
		f.Data[i] -= 3
	}
	out, err := GridSample(px, f, Options{Mode: ModeNearest, Edge: EdgeBorder})
	if err != nil {
		t.Fatalf("GridSample: %v", err)
	}
	for y := 0; y < 4; y++ {
		if v := out.At(0, y, 0); v != px.At(0, y, 0) {
			t.Errorf("clamped sample at row %d = %f, want %f", y, v, px.At(0, y, 0))
		}
	}
}

func TestNearestReflectUnsupported(t *testing.T) {
	px := createTestTensor(4, 4)
	_, err := GridSample(px, AffineGrid(4, 4), Options{Mode: ModeNearest, Edge: EdgeReflect})
	if !errors.Is(err, ErrUnsupportedConfig) {
		t.Errorf("expected ErrUnsupportedConfig, got %v", err)
	}
}

func TestReflectIndex(t *testing.T) {
	cases := []struct{ in, n, want int }{
		{-1, 4, 1},
		{-2, 4, 2},
		{4, 4, 2},
		{5, 4, 1},
		{0, 4, 0},
		{3, 4, 3},
		{-1, 1, 0},
	}
	for _, c := range cases {
		if got := reflectIndex(c.in, c.n); got != c.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", c.in, c.n, got, c.want)
		}
	}
}
