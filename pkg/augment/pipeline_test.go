package augment

import (
	"testing"

	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
	"github.com/menta2k/image-augment/pkg/tensor"
)

func rotateTfm() *Transform {
	return Affine("rot", func(p Params) (sampler.Matrix, error) {
		deg, err := p.Float("degrees")
		if err != nil {
			return sampler.Matrix{}, err
		}
		return rotationMat(deg), nil
	}).Rand("degrees", random.Uniform).Build()
}

func brightnessTfm() *Transform {
	return Lighting("bright", func(logit *tensor.Tensor, p Params) (*tensor.Tensor, error) {
		c, err := p.Float("change")
		if err != nil {
			return nil, err
		}
		return logit.AddScalar(float32(c)), nil
	}).Rand("change", random.Uniform).Build()
}

func TestApplyNoOpShortCircuit(t *testing.T) {
	src := random.NewSource(1)
	img := createTestImage(4, 4)
	out, err := Apply(src, nil, img, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != img {
		t.Error("empty pipeline returned a different image instance")
	}
}

func TestApplyClonesInput(t *testing.T) {
	src := random.NewSource(2)
	img := createTestImage(4, 4)
	original := make([]float32, len(img.px.Data))
	copy(original, img.px.Data)

	tfms := []*RandTransform{
		rotateTfm().Rand(RawArgs{"degrees": []float64{40, 50}}),
		scaleTfm().Rand(RawArgs{"factor": 0.0}),
	}
	out, err := Apply(src, tfms, img, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out == img {
		t.Fatal("pipeline returned the input instance")
	}
	for i, v := range img.px.Data {
		if v != original[i] {
			t.Fatalf("input pixel %d changed: %f -> %f", i, original[i], v)
		}
	}
}

func TestApplyOrderingInvariance(t *testing.T) {
	mk := func() (*RandTransform, *RandTransform, *RandTransform) {
		return brightnessTfm().Rand(RawArgs{"change": []float64{-0.5, 0.5}}),
			rotateTfm().Rand(RawArgs{"degrees": []float64{-30, 30}}),
			scaleTfm().Rand(RawArgs{"factor": []float64{0.8, 1.2}})
	}

	b1, r1, s1 := mk()
	out1, err := Apply(random.NewSource(42), []*RandTransform{b1, r1, s1}, createTestImage(8, 8), nil)
	if err != nil {
		t.Fatalf("Apply 1: %v", err)
	}

	b2, r2, s2 := mk()
	out2, err := Apply(random.NewSource(42), []*RandTransform{s2, b2, r2}, createTestImage(8, 8), nil)
	if err != nil {
		t.Fatalf("Apply 2: %v", err)
	}

	d1, err := out1.Data()
	if err != nil {
		t.Fatalf("Data 1: %v", err)
	}
	d2, err := out2.Data()
	if err != nil {
		t.Fatalf("Data 2: %v", err)
	}
	if !d1.EqualWithin(d2, 1e-6) {
		t.Error("caller-supplied order changed the result")
	}
}

func TestApplyStableSortKeepsTieOrder(t *testing.T) {
	// Two pixel transforms with equal order must run in caller order.
	var trace []string
	mark := func(name string) *Transform {
		return Pixel(name, func(px *tensor.Tensor, _ Params) (*tensor.Tensor, error) {
			trace = append(trace, name)
			return px, nil
		}).Build()
	}
	tfms := []*RandTransform{mark("first").Rand(nil), mark("second").Rand(nil)}
	if _, err := Apply(random.NewSource(3), tfms, createTestImage(2, 2), nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(trace) != 2 || trace[0] != "first" || trace[1] != "second" {
		t.Errorf("tie order = %v", trace)
	}
}

func TestApplyCategoryOrdering(t *testing.T) {
	var trace []string
	lighting := Lighting("l", func(logit *tensor.Tensor, _ Params) (*tensor.Tensor, error) {
		trace = append(trace, "lighting")
		return logit, nil
	}).Build()
	pixel := Pixel("p", func(px *tensor.Tensor, _ Params) (*tensor.Tensor, error) {
		trace = append(trace, "pixel")
		return px, nil
	}).Build()
	affine := Affine("a", func(_ Params) (sampler.Matrix, error) {
		trace = append(trace, "affine")
		return sampler.Identity(), nil
	}).Build()
	coord := Coord("c", func(flow *sampler.FlowField, _ Shape, _ Params) (*sampler.FlowField, error) {
		trace = append(trace, "coord")
		return flow, nil
	}).Build()

	tfms := []*RandTransform{lighting.Rand(nil), pixel.Rand(nil), coord.Rand(nil), affine.Rand(nil)}
	if _, err := Apply(random.NewSource(4), tfms, createTestImage(4, 4), nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []string{"affine", "coord", "pixel", "lighting"}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("execution order = %v, want %v", trace, want)
		}
	}
}

func TestApplyResolvesBeforeApplying(t *testing.T) {
	src := random.NewSource(5)
	rt := scaleTfm().Rand(RawArgs{"factor": []float64{2, 3}})
	if _, err := Apply(src, []*RandTransform{rt}, createTestImage(2, 2), nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	f, ok := rt.Resolved["factor"].(float64)
	if !ok || f < 2 || f >= 3 {
		t.Errorf("pipeline did not resolve the transform: %v", rt.Resolved)
	}
}

func TestApplySkipResolve(t *testing.T) {
	rt := scaleTfm().Rand(RawArgs{"factor": 0.0})
	rt.Resolved = Params{"factor": 2.0}
	rt.DoRun = true

	img := createTestImage(2, 2)
	base := img.px.At(0, 0, 0)
	out, err := Apply(random.NewSource(6), []*RandTransform{rt}, img, &ApplyOptions{SkipResolve: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	d, err := out.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if got, want := d.At(0, 0, 0), base*2; got != want {
		t.Errorf("pre-resolved arguments ignored: pixel = %f, want %f", got, want)
	}
}

func TestApplyExtraArgs(t *testing.T) {
	tfm := scaleTfm()
	rt := tfm.Rand(RawArgs{"factor": 5.0}).Fixed()

	img := createTestImage(2, 2)
	base := img.px.At(0, 0, 0)
	out, err := Apply(random.NewSource(7), []*RandTransform{rt}, img, &ApplyOptions{
		Extra: map[*Transform]Params{tfm: {"factor": 3.0}},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	d, err := out.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if got, want := d.At(0, 0, 0), base*3; got != want {
		t.Errorf("extra args ignored: pixel = %f, want %f", got, want)
	}
}

func TestApplyTargetSize(t *testing.T) {
	out, err := Apply(random.NewSource(8), nil, createTestImage(8, 8), &ApplyOptions{Size: &[2]int{4, 4}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	d, err := out.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if d.H != 4 || d.W != 4 {
		t.Errorf("shape = %dx%d, want 4x4", d.H, d.W)
	}
}

func TestApplySampleConfig(t *testing.T) {
	rt := rotateTfm().Rand(RawArgs{"degrees": []float64{10, 20}})
	opts := &ApplyOptions{Sample: &sampler.Options{Mode: sampler.ModeNearest, Edge: sampler.EdgeZero}}
	out, err := Apply(random.NewSource(9), []*RandTransform{rt}, createTestImage(8, 8), opts)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := out.Data(); err != nil {
		t.Fatalf("Data: %v", err)
	}
}

func TestApplyStaysLazy(t *testing.T) {
	rt := rotateTfm().Rand(RawArgs{"degrees": []float64{10, 20}})
	out, err := Apply(random.NewSource(10), []*RandTransform{rt}, createTestImage(8, 8), nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.State() != StatePendingGeometry {
		t.Errorf("state = %s, want pending-geometry before any read", out.State())
	}
}

func TestApplyErrorLeavesInputUntouched(t *testing.T) {
	img := createTestImage(4, 4)
	original := make([]float32, len(img.px.Data))
	copy(original, img.px.Data)

	failing := Pixel("boom", func(px *tensor.Tensor, p Params) (*tensor.Tensor, error) {
		_, err := p.Float("missing")
		return nil, err
	}).Build()

	_, err := Apply(random.NewSource(11), []*RandTransform{failing.Rand(nil)}, img, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	for i, v := range img.px.Data {
		if v != original[i] {
			t.Fatalf("input pixel %d changed after failed pipeline", i)
		}
	}
}
