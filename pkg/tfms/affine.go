// Package tfms is the catalog of predefined transforms. Each transform is a
// package-level descriptor built once at init with its category, execution
// order and randomization annotations; bind one to raw arguments with Rand
// to use it in a pipeline.
package tfms

import (
	"math"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
)

// Rotate rotates the image by `degrees` (counter-clockwise for positive
// values). `degrees` draws uniform over the supplied range.
var Rotate = augment.Affine("rotate", rotateMat).
	Rand("degrees", random.Uniform).
	Build()

func rotateMat(p augment.Params) (sampler.Matrix, error) {
	degrees, err := p.Float("degrees")
	if err != nil {
		return sampler.Matrix{}, err
	}
	a := degrees * math.Pi / 180
	return sampler.Matrix{
		{math.Cos(a), -math.Sin(a), 0},
		{math.Sin(a), math.Cos(a), 0},
		{0, 0, 1},
	}, nil
}

// zoomMat builds a scale-and-shift matrix in normalized coordinates: sw and
// sh scale the sampling window, c and r shift its center.
func zoomMat(sw, sh, c, r float64) sampler.Matrix {
	return sampler.Matrix{
		{sw, 0, c},
		{0, sh, r},
		{0, 0, 1},
	}
}

// Zoom zooms in by `scale`, keeping the point at (row_pct, col_pct) of the
// image in view.
var Zoom = augment.Affine("zoom", zoomAffine).
	RandDefault("scale", random.Uniform, 1.0).
	RandDefault("row_pct", random.Uniform, 0.5).
	RandDefault("col_pct", random.Uniform, 0.5).
	Build()

func zoomAffine(p augment.Params) (sampler.Matrix, error) {
	scale, err := p.Float("scale")
	if err != nil {
		return sampler.Matrix{}, err
	}
	rowPct, err := p.Float("row_pct")
	if err != nil {
		return sampler.Matrix{}, err
	}
	colPct, err := p.Float("col_pct")
	if err != nil {
		return sampler.Matrix{}, err
	}
	s := 1 - 1/scale
	colC := s * (2*colPct - 1)
	rowC := s * (2*rowPct - 1)
	return zoomMat(1/scale, 1/scale, colC, rowC), nil
}

// Squish compresses one axis by `scale`: values below 1 squeeze width,
// values above 1 squeeze height.
var Squish = augment.Affine("squish", squishAffine).
	RandDefault("scale", random.Uniform, 1.0).
	RandDefault("row_pct", random.Uniform, 0.5).
	RandDefault("col_pct", random.Uniform, 0.5).
	Build()

func squishAffine(p augment.Params) (sampler.Matrix, error) {
	scale, err := p.Float("scale")
	if err != nil {
		return sampler.Matrix{}, err
	}
	rowPct, err := p.Float("row_pct")
	if err != nil {
		return sampler.Matrix{}, err
	}
	colPct, err := p.Float("col_pct")
	if err != nil {
		return sampler.Matrix{}, err
	}
	if scale <= 1 {
		colC := (1 - scale) * (2*colPct - 1)
		return zoomMat(scale, 1, colC, 0), nil
	}
	rowC := (1 - 1/scale) * (2*rowPct - 1)
	return zoomMat(1, 1/scale, 0, rowC), nil
}
