// Package tensor provides the float32 pixel buffer used by the augmentation
// engine. Images are stored channel-first (C×H×W) with values in [0,1].
package tensor

import (
	"fmt"
	"math"
)

// logit inputs are clamped away from 0 and 1 so the round-trip stays finite
const logitEps = 1e-7

// Tensor is a dense C×H×W float32 array.
type Tensor struct {
	C, H, W int
	Data    []float32
}

// New creates a zero-filled tensor with the given shape.
func New(c, h, w int) *Tensor {
	return &Tensor{C: c, H: h, W: w, Data: make([]float32, c*h*w)}
}

// FromSlice creates a tensor that takes ownership of data.
// The slice length must equal c*h*w.
func FromSlice(c, h, w int, data []float32) (*Tensor, error) {
	if len(data) != c*h*w {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %dx%dx%d", len(data), c, h, w)
	}
	return &Tensor{C: c, H: h, W: w, Data: data}, nil
}

// Shape returns (channels, height, width).
func (t *Tensor) Shape() (int, int, int) { return t.C, t.H, t.W }

// Size returns (height, width).
func (t *Tensor) Size() (int, int) { return t.H, t.W }

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.Data) }

// At returns the value at channel c, row y, column x.
func (t *Tensor) At(c, y, x int) float32 {
	return t.Data[(c*t.H+y)*t.W+x]
}

// Set stores v at channel c, row y, column x.
func (t *Tensor) Set(c, y, x int, v float32) {
	t.Data[(c*t.H+y)*t.W+x] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.Data))
	copy(data, t.Data)
	return &Tensor{C: t.C, H: t.H, W: t.W, Data: data}
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.Data {
		t.Data[i] = v
	}
}

// Logit returns a new tensor with logit(x) applied elementwise. Values are
// clamped to (0,1) first so the result is finite.
func (t *Tensor) Logit() *Tensor {
	out := t.Clone()
	for i, v := range out.Data {
		x := float64(v)
		if x < logitEps {
			x = logitEps
		} else if x > 1-logitEps {
			x = 1 - logitEps
		}
		out.Data[i] = float32(math.Log(x / (1 - x)))
	}
	return out
}

// Sigmoid returns a new tensor with sigmoid(x) applied elementwise.
func (t *Tensor) Sigmoid() *Tensor {
	out := t.Clone()
	for i, v := range out.Data {
		out.Data[i] = float32(1 / (1 + math.Exp(-float64(v))))
	}
	return out
}

// AddScalar adds v to every element in place and returns the tensor.
func (t *Tensor) AddScalar(v float32) *Tensor {
	for i := range t.Data {
		t.Data[i] += v
	}
	return t
}

// MulScalar multiplies every element by v in place and returns the tensor.
func (t *Tensor) MulScalar(v float32) *Tensor {
	for i := range t.Data {
		t.Data[i] *= v
	}
	return t
}

// HWC returns the pixels in channel-last order for display and encoding.
// Single-channel tensors are squeezed to H×W (a nil channel axis), matching
// what plotting front ends expect.
func (t *Tensor) HWC() ([]float32, int) {
	ch := t.C
	out := make([]float32, len(t.Data))
	if ch == 1 {
		copy(out, t.Data)
		return out, 1
	}
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			for c := 0; c < ch; c++ {
				out[(y*t.W+x)*ch+c] = t.At(c, y, x)
			}
		}
	}
	return out, ch
}

// EqualWithin reports whether two tensors have the same shape and all
// elements differ by at most tol.
func (t *Tensor) EqualWithin(o *Tensor, tol float32) bool {
	if t.C != o.C || t.H != o.H || t.W != o.W {
		return false
	}
	for i := range t.Data {
		d := t.Data[i] - o.Data[i]
		if d < 0 {
			d = -d
		}
		if d > tol {
			return false
		}
	}
	return true
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor (%dx%dx%d)", t.C, t.H, t.W)
}
