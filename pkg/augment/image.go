// Package augment implements the transform-composition core of the
// augmentation engine: a lazy image model that defers geometric and lighting
// work until pixels are read, declarative transforms with randomized
// parameters, and a pipeline executor that resolves, orders and applies them.
package augment

import (
	"fmt"

	"github.com/menta2k/image-augment/pkg/sampler"
	"github.com/menta2k/image-augment/pkg/tensor"
)

// Item is the capability shared by all transformable dataset items. Batch
// collation unwraps containers of Items down to their raw tensors.
type Item interface {
	// Data returns the materialized tensor, flushing any deferred state.
	Data() (*tensor.Tensor, error)
	// Device names where the item's data lives.
	Device() string
}

// Shape is a (channels, height, width) triple.
type Shape struct {
	C, H, W int
}

// State describes which deferred buffers of a lazy image are pending.
type State int

const (
	StateClean State = iota
	StatePendingLogit
	StatePendingGeometry
	StatePendingBoth
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StatePendingLogit:
		return "pending-logit"
	case StatePendingGeometry:
		return "pending-geometry"
	case StatePendingBoth:
		return "pending-both"
	}
	return "unknown"
}

// LazyImage holds raw pixels plus three deferred accumulators: a composed
// affine matrix, a coordinate flow field, and a logit-space pixel buffer.
// Transforms mutate the accumulators; nothing is resampled until
// Materialize runs, so any number of affine transforms cost a single
// resampling pass.
//
// A LazyImage is single-owner state: it is not safe for concurrent use.
type LazyImage struct {
	px      *tensor.Tensor
	logitPx *tensor.Tensor
	flow    *sampler.FlowField
	mat     *sampler.Matrix
	sample  sampler.Options
}

// NewImage wraps a pixel tensor. The image takes ownership of px.
func NewImage(px *tensor.Tensor) *LazyImage {
	return &LazyImage{px: px}
}

// Shape returns the raw pixel buffer's (channels, height, width).
func (img *LazyImage) Shape() Shape {
	return Shape{C: img.px.C, H: img.px.H, W: img.px.W}
}

// Device implements Item. The engine is array-on-host only.
func (img *LazyImage) Device() string { return "cpu" }

// State reports which deferred buffers are pending.
func (img *LazyImage) State() State {
	logit := img.logitPx != nil
	geom := img.flow != nil || img.mat != nil
	switch {
	case logit && geom:
		return StatePendingBoth
	case logit:
		return StatePendingLogit
	case geom:
		return StatePendingGeometry
	}
	return StateClean
}

// Clone copies the image including its deferred state, without
// materializing. The clone and the original share nothing.
func (img *LazyImage) Clone() *LazyImage {
	c := &LazyImage{px: img.px.Clone(), sample: img.sample}
	if img.logitPx != nil {
		c.logitPx = img.logitPx.Clone()
	}
	if img.flow != nil {
		c.flow = img.flow.Clone()
	}
	if img.mat != nil {
		m := *img.mat
		c.mat = &m
	}
	return c
}

// SetSample overrides the resampling configuration used at the next
// materialization. Empty fields keep their previous value.
func (img *LazyImage) SetSample(opts sampler.Options) *LazyImage {
	if opts.Mode != "" {
		img.sample.Mode = opts.Mode
	}
	if opts.Edge != "" {
		img.sample.Edge = opts.Edge
	}
	return img
}

// Flow returns the pending flow field, folding any composed affine matrix
// into it first. With nothing pending it returns the identity grid for the
// current shape.
func (img *LazyImage) Flow() *sampler.FlowField {
	if img.flow == nil {
		img.flow = sampler.GridFor(img.px)
	}
	if img.mat != nil {
		img.flow = sampler.AffineMult(img.flow, *img.mat)
		img.mat = nil
	}
	return img.flow
}

// Materialize collapses all deferred state into the raw pixel buffer: the
// logit buffer is mapped back through sigmoid, then the affine matrix is
// folded into the flow field and a single resampling pass runs. After it
// returns the image is Clean.
func (img *LazyImage) Materialize() error {
	if img.logitPx != nil {
		img.px = img.logitPx.Sigmoid()
		img.logitPx = nil
	}
	if img.mat != nil || img.flow != nil {
		flow := img.Flow()
		px, err := sampler.GridSample(img.px, flow, img.sample)
		if err != nil {
			return fmt.Errorf("materialize: %w", err)
		}
		img.px = px
		img.flow = nil
		img.sample = sampler.Options{}
	}
	return nil
}

// Data implements Item: it materializes and returns the pixel tensor. The
// returned tensor is the image's own buffer; callers that keep it across
// further transforms should Clone it.
func (img *LazyImage) Data() (*tensor.Tensor, error) {
	if err := img.Materialize(); err != nil {
		return nil, err
	}
	return img.px, nil
}

// logitData returns the pixels mapped into logit space, materializing any
// pending geometry first so lighting composes on settled pixels.
func (img *LazyImage) logitData() (*tensor.Tensor, error) {
	if img.logitPx == nil {
		px, err := img.Data()
		if err != nil {
			return nil, err
		}
		img.logitPx = px.Logit()
	}
	return img.logitPx, nil
}

// ApplyAffine composes a 3×3 matrix onto the pending transform:
// right-multiplication, so the new transform applies after the ones already
// queued in image space.
func (img *LazyImage) ApplyAffine(m sampler.Matrix) *LazyImage {
	if img.mat == nil {
		id := sampler.Identity()
		img.mat = &id
	}
	composed := img.mat.Mul(m)
	img.mat = &composed
	return img
}

// ApplyCoord rewrites the flow field through fn. The current matrix is
// folded in first so fn sees the fully composed coordinates.
func (img *LazyImage) ApplyCoord(fn CoordFunc, p Params) error {
	flow, err := fn(img.Flow(), img.Shape(), p)
	if err != nil {
		return err
	}
	img.flow = flow
	return nil
}

// ApplyPixel mutates raw pixels directly through fn. Pending state is
// materialized first, since fn bypasses the flow/matrix machinery.
func (img *LazyImage) ApplyPixel(fn PixelFunc, p Params) error {
	px, err := img.Data()
	if err != nil {
		return err
	}
	out, err := fn(px, p)
	if err != nil {
		return err
	}
	img.px = out
	return nil
}

// ApplyLighting updates the logit-space buffer through fn; the buffer is
// mapped back through sigmoid at the next materialization.
func (img *LazyImage) ApplyLighting(fn LightingFunc, p Params) error {
	lp, err := img.logitData()
	if err != nil {
		return err
	}
	out, err := fn(lp, p)
	if err != nil {
		return err
	}
	img.logitPx = out
	return nil
}

// Resize queues a resample to (h, w) by installing a fresh identity grid of
// the target shape. It cannot be combined with an already-pending coordinate
// flow on the same image.
func (img *LazyImage) Resize(h, w int) error {
	if img.flow != nil {
		return fmt.Errorf("%w: resize with a pending coordinate flow", ErrInvalidState)
	}
	img.flow = sampler.AffineGrid(h, w)
	return nil
}

func (img *LazyImage) String() string {
	s := img.Shape()
	return fmt.Sprintf("LazyImage (%dx%dx%d, %s)", s.C, s.H, s.W, img.State())
}
