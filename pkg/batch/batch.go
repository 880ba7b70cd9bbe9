// Package batch assembles augmented items into training batches. It unwraps
// nested containers of dataset items down to raw tensors and stacks
// same-shape tensors into a single batch buffer.
package batch

import (
	"fmt"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/tensor"
)

// ToData recursively unwraps v: dataset items become their materialized
// tensors, slices of items (including concrete image slices) are unwrapped
// element by element, and anything else passes through unchanged.
func ToData(v any) (any, error) {
	switch x := v.(type) {
	case augment.Item:
		return x.Data()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := ToData(e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case []augment.Item:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := e.Data()
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case []*augment.LazyImage:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := e.Data()
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		return v, nil
	}
}

// Batch is an N×C×H×W stack of image tensors.
type Batch struct {
	N, C, H, W int
	Data       []float32
}

// Image returns the i-th image as a tensor view copy.
func (b *Batch) Image(i int) *tensor.Tensor {
	size := b.C * b.H * b.W
	t := tensor.New(b.C, b.H, b.W)
	copy(t.Data, b.Data[i*size:(i+1)*size])
	return t
}

// Collate stacks same-shape tensors into a batch. Shapes must match
// exactly; augment pipelines with a fixed target size guarantee that.
func Collate(items []*tensor.Tensor) (*Batch, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("collate: empty batch")
	}
	c, h, w := items[0].Shape()
	out := &Batch{N: len(items), C: c, H: h, W: w, Data: make([]float32, len(items)*c*h*w)}
	size := c * h * w
	for i, t := range items {
		tc, th, tw := t.Shape()
		if tc != c || th != h || tw != w {
			return nil, fmt.Errorf("collate: item %d shape %dx%dx%d does not match %dx%dx%d", i, tc, th, tw, c, h, w)
		}
		copy(out.Data[i*size:(i+1)*size], t.Data)
	}
	return out, nil
}

// CollateItems materializes and stacks dataset items.
func CollateItems(items []augment.Item) (*Batch, error) {
	tensors := make([]*tensor.Tensor, len(items))
	for i, it := range items {
		d, err := it.Data()
		if err != nil {
			return nil, err
		}
		tensors[i] = d
	}
	return Collate(tensors)
}
