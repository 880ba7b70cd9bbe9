// Package sampler implements flow fields and grid resampling: the machinery
// that turns accumulated geometric transforms into a single resampling pass
// over a pixel tensor.
//
// A flow field stores, for every output pixel, the normalized coordinate in
// [-1,1] of the source sample that produces it. Affine transforms are applied
// to a flow field by transforming every coordinate pair; non-linear warps
// rewrite the field directly.
package sampler

import "github.com/menta2k/image-augment/pkg/tensor"

// FlowField is an H×W field of normalized (x, y) sample coordinates.
// Coordinates are stored interleaved: the pair for output pixel (y, x) is at
// Data[(y*W+x)*2] and Data[(y*W+x)*2+1].
type FlowField struct {
	H, W int
	Data []float32
}

// NewFlowField creates a zero-filled flow field.
func NewFlowField(h, w int) *FlowField {
	return &FlowField{H: h, W: w, Data: make([]float32, h*w*2)}
}

// At returns the (x, y) sample coordinate for output pixel (y, x).
func (f *FlowField) At(y, x int) (float32, float32) {
	i := (y*f.W + x) * 2
	return f.Data[i], f.Data[i+1]
}

// Set stores the sample coordinate for output pixel (y, x).
func (f *FlowField) Set(y, x int, cx, cy float32) {
	i := (y*f.W + x) * 2
	f.Data[i], f.Data[i+1] = cx, cy
}

// Clone returns a deep copy.
func (f *FlowField) Clone() *FlowField {
	data := make([]float32, len(f.Data))
	copy(data, f.Data)
	return &FlowField{H: f.H, W: f.W, Data: data}
}

// AffineGrid builds the identity sampling grid for an h×w target: x
// coordinates linearly spaced over [-1,1] along each row, y coordinates over
// [-1,1] along each column. An axis of length 1 degenerates to the single
// point -1.
func AffineGrid(h, w int) *FlowField {
	f := NewFlowField(h, w)
	xs := linspace(w)
	ys := linspace(h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(y, x, xs[x], ys[y])
		}
	}
	return f
}

// GridFor builds the identity grid matching a tensor's spatial shape.
func GridFor(t *tensor.Tensor) *FlowField {
	return AffineGrid(t.H, t.W)
}

func linspace(n int) []float32 {
	out := make([]float32, n)
	if n == 1 {
		out[0] = -1
		return out
	}
	step := 2 / float64(n-1)
	for i := range out {
		out[i] = float32(-1 + float64(i)*step)
	}
	return out
}

// AffineMult transforms every coordinate pair in f by m: the 2×2 block
// rotates and scales, the translation column shifts. The identity matrix
// leaves f unchanged. f is modified in place and returned.
func AffineMult(f *FlowField, m Matrix) *FlowField {
	if m.IsIdentity() {
		return f
	}
	for i := 0; i < len(f.Data); i += 2 {
		x := float64(f.Data[i])
		y := float64(f.Data[i+1])
		f.Data[i] = float32(m[0][0]*x + m[0][1]*y + m[0][2])
		f.Data[i+1] = float32(m[1][0]*x + m[1][1]*y + m[1][2])
	}
	return f
}
