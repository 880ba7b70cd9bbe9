package tfms

import (
	"math"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/tensor"
)

// Brightness shifts brightness by `change` in [0,1]: 0.5 is a no-op, higher
// brightens. Works by adding logit(change) in logit space.
var Brightness = augment.Lighting("brightness", brightness).
	Rand("change", random.Uniform).
	Build()

func brightness(logit *tensor.Tensor, p augment.Params) (*tensor.Tensor, error) {
	change, err := p.Float("change")
	if err != nil {
		return nil, err
	}
	return logit.AddScalar(float32(math.Log(change / (1 - change)))), nil
}

// Contrast scales contrast multiplicatively in logit space: 1 is a no-op,
// above 1 increases contrast. Annotate with log-uniform bounds so the draw
// is symmetric around 1.
var Contrast = augment.Lighting("contrast", contrast).
	Rand("scale", random.LogUniform).
	Build()

func contrast(logit *tensor.Tensor, p augment.Params) (*tensor.Tensor, error) {
	scale, err := p.Float("scale")
	if err != nil {
		return nil, err
	}
	return logit.MulScalar(float32(scale)), nil
}
