package tfms

import (
	"fmt"

	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/tensor"
)

// FlipLR mirrors the image horizontally.
var FlipLR = augment.Pixel("flip_lr", flipLR).Build()

func flipLR(px *tensor.Tensor, _ augment.Params) (*tensor.Tensor, error) {
	out := tensor.New(px.C, px.H, px.W)
	for c := 0; c < px.C; c++ {
		for y := 0; y < px.H; y++ {
			for x := 0; x < px.W; x++ {
				out.Set(c, y, x, px.At(c, y, px.W-1-x))
			}
		}
	}
	return out, nil
}

// Pad grows the image by `padding` pixels on every side. Runs in the padding
// slot so it precedes crops. `mode` is reflect, zeros or border.
var Pad = augment.Pixel("pad", pad).
	Order(augment.OrderPadding).
	Param("padding").
	Default("mode", "reflect").
	Build()

func pad(px *tensor.Tensor, p augment.Params) (*tensor.Tensor, error) {
	padding, err := p.Int("padding")
	if err != nil {
		return nil, err
	}
	mode, err := p.String("mode")
	if err != nil {
		return nil, err
	}
	out := tensor.New(px.C, px.H+2*padding, px.W+2*padding)
	for c := 0; c < px.C; c++ {
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				sy, sx := y-padding, x-padding
				inside := sy >= 0 && sy < px.H && sx >= 0 && sx < px.W
				if !inside {
					switch mode {
					case "zeros":
						continue
					case "border":
						sy = clamp(sy, 0, px.H-1)
						sx = clamp(sx, 0, px.W-1)
					case "reflect":
						sy = reflect(sy, px.H)
						sx = reflect(sx, px.W)
					default:
						return nil, fmt.Errorf("pad: unknown mode %q", mode)
					}
				}
				out.Set(c, y, x, px.At(c, sy, sx))
			}
		}
	}
	return out, nil
}

// Crop cuts a `size` window positioned by (row_pct, col_pct): 0 pins the
// window to the top/left edge, 1 to the bottom/right.
var Crop = augment.Pixel("crop", crop).
	Param("size").
	RandDefault("row_pct", random.Uniform, 0.5).
	RandDefault("col_pct", random.Uniform, 0.5).
	Build()

func crop(px *tensor.Tensor, p augment.Params) (*tensor.Tensor, error) {
	rows, cols, err := p.Size("size")
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
	if rows > px.H || cols > px.W {
		return nil, fmt.Errorf("crop: size %dx%d exceeds image %dx%d", rows, cols, px.H, px.W)
	}
	row := int(float64(px.H-rows+1) * rowPct)
	col := int(float64(px.W-cols+1) * colPct)
	row = clamp(row, 0, px.H-rows)
	col = clamp(col, 0, px.W-cols)

	out := tensor.New(px.C, rows, cols)
	for c := 0; c < px.C; c++ {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				out.Set(c, y, x, px.At(c, row+y, col+x))
			}
		}
	}
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// reflect folds an index into [0, n) without repeating the border pixel.
func reflect(i, n int) int {
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
