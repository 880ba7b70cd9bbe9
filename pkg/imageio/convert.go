package imageio

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-augment/pkg/tensor"
)

// Decode converts an image.Image into a 3×H×W tensor with values in [0,1].
func Decode(img image.Image) *tensor.Tensor {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	t := tensor.New(3, h, w)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			t.Set(0, y, x, float32(row[x*4])/255)
			t.Set(1, y, x, float32(row[x*4+1])/255)
			t.Set(2, y, x, float32(row[x*4+2])/255)
		}
	}
	return t
}

// Encode converts a tensor back to an image.Image, clamping values into
// [0,1]. Single-channel tensors encode as grayscale.
func Encode(t *tensor.Tensor) image.Image {
	if t.C == 1 {
		img := image.NewGray(image.Rect(0, 0, t.W, t.H))
		for y := 0; y < t.H; y++ {
			for x := 0; x < t.W; x++ {
				img.SetGray(x, y, color.Gray{Y: to8(t.At(0, y, x))})
			}
		}
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, t.W, t.H))
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(t.At(0, y, x)),
				G: to8(t.At(1%t.C, y, x)),
				B: to8(t.At(2%t.C, y, x)),
				A: 255,
			})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
