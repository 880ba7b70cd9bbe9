package random

import (
	"errors"
	"math"
	"testing"
)

func TestUniformRange(t *testing.T) {
	src := NewSource(1)
	for i := 0; i < 100; i++ {
		v := src.Uniform(-3, 7)
		if v < -3 || v >= 7 {
			t.Errorf("Uniform(-3, 7) = %f, out of range", v)
		}
	}
}

func TestUniformDeterminism(t *testing.T) {
	a := NewSource(99)
	b := NewSource(99)
	for i := 0; i < 20; i++ {
		va, vb := a.Uniform(0, 1), b.Uniform(0, 1)
		if va != vb {
			t.Errorf("draw %d: %f != %f with identical seeds", i, va, vb)
		}
	}
}

func TestLogUniformRange(t *testing.T) {
	src := NewSource(2)
	for i := 0; i < 100; i++ {
		v := src.LogUniform(0.5, 2)
		if v < 0.5 || v > 2 {
			t.Errorf("LogUniform(0.5, 2) = %f, out of range", v)
		}
	}
}

func TestLogUniformGeometricMean(t *testing.T) {
	src := NewSource(3)
	var sum float64
	n := 20000
	for i := 0; i < n; i++ {
		sum += math.Log(src.LogUniform(0.25, 4))
	}
	// geometric mean should approach sqrt(0.25*4) = 1, i.e. mean log 0
	if mean := sum / float64(n); math.Abs(mean) > 0.05 {
		t.Errorf("mean log = %f, want near 0", mean)
	}
}

func TestBoolBoundaries(t *testing.T) {
	src := NewSource(4)
	for i := 0; i < 100; i++ {
		if src.Bool(0) {
			t.Fatal("Bool(0) returned true")
		}
		if !src.Bool(1) {
			t.Fatal("Bool(1) returned false")
		}
	}
}

func TestBoolFrequency(t *testing.T) {
	src := NewSource(5)
	n := 10000
	hits := 0
	for i := 0; i < n; i++ {
		if src.Bool(0.3) {
			hits++
		}
	}
	freq := float64(hits) / float64(n)
	if math.Abs(freq-0.3) > 0.03 {
		t.Errorf("Bool(0.3) frequency = %f, want near 0.3", freq)
	}
}

func TestBroadcast(t *testing.T) {
	out, err := Broadcast([]float64{2}, 3)
	if err != nil {
		t.Fatalf("Broadcast single: %v", err)
	}
	if len(out) != 3 || out[0] != 2 || out[2] != 2 {
		t.Errorf("Broadcast single = %v", out)
	}

	exact := []float64{1, 2, 3}
	out, err = Broadcast(exact, 3)
	if err != nil {
		t.Fatalf("Broadcast exact: %v", err)
	}
	if len(out) != 3 || out[1] != 2 {
		t.Errorf("Broadcast exact = %v", out)
	}
}

func TestBroadcastMismatch(t *testing.T) {
	_, err := Broadcast([]float64{1, 2}, 5)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestUniformN(t *testing.T) {
	src := NewSource(6)
	out, err := src.UniformN([]float64{0}, []float64{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("UniformN: %v", err)
	}
	for i, v := range out {
		if v < 0 || v >= float64(i+1) {
			t.Errorf("draw %d = %f, out of range [0, %d)", i, v, i+1)
		}
	}

	if _, err := src.UniformN([]float64{0, 1}, []float64{1}, 3); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestDistSample(t *testing.T) {
	src := NewSource(7)

	v, err := Uniform.Sample(src, 2, 5)
	if err != nil {
		t.Fatalf("Uniform.Sample: %v", err)
	}
	f, ok := v.(float64)
	if !ok || f < 2 || f >= 5 {
		t.Errorf("Uniform(2, 5) = %v", v)
	}

	v, err = Uniform.Sample(src, 0, 1, 4)
	if err != nil {
		t.Fatalf("Uniform.Sample with count: %v", err)
	}
	fs, ok := v.([]float64)
	if !ok || len(fs) != 4 {
		t.Errorf("Uniform(0, 1, 4) = %v, want 4 draws", v)
	}

	v, err = RandBool.Sample(src, 1)
	if err != nil {
		t.Fatalf("RandBool.Sample: %v", err)
	}
	if b, ok := v.(bool); !ok || !b {
		t.Errorf("RandBool(1) = %v, want true", v)
	}
}

func TestDistDefaults(t *testing.T) {
	src := NewSource(8)

	v, err := Uniform.Sample(src)
	if err != nil {
		t.Fatalf("Uniform defaults: %v", err)
	}
	if f := v.(float64); f < 0 || f >= 1 {
		t.Errorf("Uniform() = %f, want in [0,1)", f)
	}

	v, err = LogUniform.Sample(src)
	if err != nil {
		t.Fatalf("LogUniform defaults: %v", err)
	}
	if f := v.(float64); f < 0.5 || f > 2 {
		t.Errorf("LogUniform() = %f, want in [0.5,2]", f)
	}

	if _, err := RandBool.Sample(src); err != nil {
		t.Fatalf("RandBool defaults: %v", err)
	}
}

func TestDistScalarArgPinsValue(t *testing.T) {
	src := NewSource(9)

	v, err := Uniform.Sample(src, 2.5)
	if err != nil {
		t.Fatalf("Uniform scalar: %v", err)
	}
	if f := v.(float64); f != 2.5 {
		t.Errorf("Uniform(2.5) = %f, want exactly 2.5", f)
	}

	v, err = LogUniform.Sample(src, 1.3)
	if err != nil {
		t.Fatalf("LogUniform scalar: %v", err)
	}
	if f := v.(float64); f != 1.3 {
		t.Errorf("LogUniform(1.3) = %f, want exactly 1.3", f)
	}
}

func TestDistBadArgCount(t *testing.T) {
	src := NewSource(10)
	if _, err := Uniform.Sample(src, 1, 2, 3, 4); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Uniform with 4 args: expected ErrShapeMismatch, got %v", err)
	}
	if _, err := RandBool.Sample(src, 0.5, 2, 3); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("RandBool with 3 args: expected ErrShapeMismatch, got %v", err)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"uniform", "log_uniform", "rand_bool"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("gaussian"); ok {
		t.Error("ByName(gaussian) should not exist")
	}
}
