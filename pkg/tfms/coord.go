package tfms

import (
	"math"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
)

// Jitter displaces every sample coordinate by uniform noise scaled by
// `magnitude`. The noise stream is seeded from the resolved `seed`
// parameter, so a resolved transform applies identically every time.
var Jitter = augment.Coord("jitter", jitterFlow).
	Rand("magnitude", random.Uniform).
	Rand("seed", random.Uniform).
	Build()

func jitterFlow(flow *sampler.FlowField, _ augment.Shape, p augment.Params) (*sampler.FlowField, error) {
	magnitude, err := p.Float("magnitude")
	if err != nil {
		return nil, err
	}
	seed, err := p.Float("seed")
	if err != nil {
		return nil, err
	}
	noise := random.NewSource(int64(seed * float64(math.MaxInt64)))
	for i := range flow.Data {
		flow.Data[i] += float32((noise.Float64() - 0.5) * magnitude * 2)
	}
	return flow, nil
}

// ZoomSquish tries a handful of random zoom/squish combinations and applies
// the first that stays inside the picture, falling back to a center-crop
// style matrix. Pass multi-draw ranges (e.g. scale: [0.5, 1.0, 10]) so it
// has several candidates to try.
var ZoomSquish = augment.Coord("zoom_squish", zoomSquishFlow).
	RandDefault("scale", random.Uniform, 1.0).
	RandDefault("squish", random.Uniform, 1.0).
	RandDefault("invert", random.RandBool, false).
	RandDefault("row_pct", random.Uniform, 0.5).
	RandDefault("col_pct", random.Uniform, 0.5).
	Build()

func zoomSquishFlow(flow *sampler.FlowField, shape augment.Shape, p augment.Params) (*sampler.FlowField, error) {
	scale, err := p.Floats("scale")
	if err != nil {
		return nil, err
	}
	squish, err := p.Floats("squish")
	if err != nil {
		return nil, err
	}
	invert, err := p.Bools("invert")
	if err != nil {
		return nil, err
	}
	rowPct, err := p.Float("row_pct")
	if err != nil {
		return nil, err
	}
	colPct, err := p.Float("col_pct")
	if err != nil {
		return nil, err
	}
	m := zoomSquishMat(shape, scale, squish, invert, rowPct, colPct)
	return sampler.AffineMult(flow, m), nil
}

func zoomSquishMat(shape augment.Shape, scale, squish []float64, invert []bool, rowPct, colPct float64) sampler.Matrix {
	origRatio := math.Sqrt(float64(shape.W) / float64(shape.H))
	n := len(scale)
	if len(squish) < n {
		n = len(squish)
	}
	if len(invert) < n {
		n = len(invert)
	}
	for i := 0; i < n; i++ {
		s := math.Sqrt(scale[i])
		r := math.Sqrt(squish[i])
		if s*r > 1 || s/r > 1 {
			continue // candidate window pokes outside the picture
		}
		w, h := s*r, s/r
		if invert[i] {
			w, h = s/r, s*r
		}
		w /= origRatio
		h *= origRatio
		colC := (1 - w) * (2*colPct - 1)
		rowC := (1 - h) * (2*rowPct - 1)
		return zoomMat(w, h, colC, rowC)
	}
	// Fallback: emulate a center crop without cropping anything yet.
	if origRatio > 1 {
		return zoomMat(1/(origRatio*origRatio), 1, 0, 0)
	}
	return zoomMat(1, origRatio*origRatio, 0, 0)
}
