package sampler

import (
	"errors"
	"fmt"
	"math"

	"github.com/menta2k/image-augment/pkg/tensor"
)

// ErrUnsupportedConfig is returned for mode/edge combinations with no
// defined semantics.
var ErrUnsupportedConfig = errors.New("unsupported sampling config")

// Mode selects how fractional sample coordinates are turned into pixels.
type Mode string

const (
	// ModeBilinear interpolates between the four surrounding pixels.
	ModeBilinear Mode = "bilinear"
	// ModeNearest rounds to the nearest pixel index.
	ModeNearest Mode = "nearest"
)

// Edge selects how samples outside the image are handled.
type Edge string

const (
	// EdgeZero fills out-of-range samples with zero.
	EdgeZero Edge = "zeros"
	// EdgeBorder clamps out-of-range samples to the image border.
	EdgeBorder Edge = "border"
	// EdgeReflect folds out-of-range samples back into the image.
	// Only the bilinear path supports it.
	EdgeReflect Edge = "reflect"
)

// Options configures a resampling pass.
type Options struct {
	Mode Mode
	Edge Edge
}

// DefaultOptions returns bilinear sampling with reflected edges.
func DefaultOptions() Options {
	return Options{Mode: ModeBilinear, Edge: EdgeReflect}
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeBilinear
	}
	if o.Edge == "" {
		o.Edge = EdgeReflect
	}
	return o
}

// GridSample resamples t through the flow field: output pixel (y, x) is read
// from the source location flow(y, x). The output takes the flow field's
// spatial shape, so a flow built for a larger grid upsamples.
func GridSample(t *tensor.Tensor, flow *FlowField, opts Options) (*tensor.Tensor, error) {
	opts = opts.withDefaults()
	switch opts.Mode {
	case ModeNearest:
		if opts.Edge == EdgeReflect {
			return nil, fmt.Errorf("%w: nearest mode does not support reflect edges", ErrUnsupportedConfig)
		}
		return sampleNearest(t, flow, opts.Edge), nil
	case ModeBilinear:
		return sampleBilinear(t, flow, opts.Edge), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrUnsupportedConfig, opts.Mode)
	}
}

// unnormalize maps a coordinate in [-1,1] to a pixel position in [0,n-1].
func unnormalize(c float32, n int) float64 {
	return (float64(c) + 1) / 2 * float64(n-1)
}

func sampleNearest(t *tensor.Tensor, flow *FlowField, edge Edge) *tensor.Tensor {
	out := tensor.New(t.C, flow.H, flow.W)
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			cx, cy := flow.At(y, x)
			sx := int(math.Round(unnormalize(cx, t.W)))
			sy := int(math.Round(unnormalize(cy, t.H)))
			if sx < 0 || sx >= t.W || sy < 0 || sy >= t.H {
				if edge == EdgeZero {
					continue // output stays zero
				}
				sx = clampInt(sx, 0, t.W-1)
				sy = clampInt(sy, 0, t.H-1)
			}
			for c := 0; c < t.C; c++ {
				out.Set(c, y, x, t.At(c, sy, sx))
			}
		}
	}
	return out
}

func sampleBilinear(t *tensor.Tensor, flow *FlowField, edge Edge) *tensor.Tensor {
	out := tensor.New(t.C, flow.H, flow.W)
	for y := 0; y < flow.H; y++ {
		for x := 0; x < flow.W; x++ {
			cx, cy := flow.At(y, x)
			fx := unnormalize(cx, t.W)
			fy := unnormalize(cy, t.H)
			x0 := int(math.Floor(fx))
			y0 := int(math.Floor(fy))
			wx := float32(fx - float64(x0))
			wy := float32(fy - float64(y0))
			for c := 0; c < t.C; c++ {
				v00 := fetch(t, c, y0, x0, edge)
				v01 := fetch(t, c, y0, x0+1, edge)
				v10 := fetch(t, c, y0+1, x0, edge)
				v11 := fetch(t, c, y0+1, x0+1, edge)
				top := v00 + (v01-v00)*wx
				bot := v10 + (v11-v10)*wx
				out.Set(c, y, x, top+(bot-top)*wy)
			}
		}
	}
	return out
}

// fetch reads pixel (y, x) from channel c applying the edge rule.
func fetch(t *tensor.Tensor, c, y, x int, edge Edge) float32 {
	if x >= 0 && x < t.W && y >= 0 && y < t.H {
		return t.At(c, y, x)
	}
	switch edge {
	case EdgeZero:
		return 0
	case EdgeReflect:
		return t.At(c, reflectIndex(y, t.H), reflectIndex(x, t.W))
	default:
		return t.At(c, clampInt(y, 0, t.H-1), clampInt(x, 0, t.W-1))
	}
}

// reflectIndex folds an index back into [0, n) without repeating the border
// sample, e.g. for n=4: -1→1, -2→2, 4→2, 5→1.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i = ((i % period) + period) % period
	if i >= n {
		i = period - i
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
