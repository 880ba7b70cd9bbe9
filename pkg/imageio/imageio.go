// Package imageio loads and saves pixel tensors through standard image
// formats. Decoding goes through the imaging library's registered decoders
// with an explicit WebP fallback; encoding supports jpg, png and webp.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-augment/pkg/tensor"
)

// SaveOptions controls encoding.
type SaveOptions struct {
	Format   string // jpg, png or webp; empty derives from the path
	Quality  int    // JPEG/WebP quality (1-100)
	Lossless bool   // WebP lossless mode
}

// DefaultSaveOptions returns JPEG at quality 90.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Format: "jpg", Quality: 90}
}

// Load reads an image file into a C×H×W tensor with values in [0,1].
func Load(path string) (*tensor.Tensor, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Decode(img), nil
}

// LoadReader decodes an image stream into a C×H×W tensor, trying the
// registered decoders first and falling back to an explicit WebP decode.
func LoadReader(r io.Reader) (*tensor.Tensor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if img, err = webp.Decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("load: unknown image format")
		}
	}
	return Decode(img), nil
}

// loadImage decodes a file, trying the registered decoders first and
// falling back to an explicit WebP decode.
func loadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("unknown image format")
}

// Save writes a tensor to path using opts.
func Save(t *tensor.Tensor, path string, opts SaveOptions) error {
	img := Encode(t)
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(extOf(path)), ".")
	}
	switch format {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Lossless: opts.Lossless, Quality: float32(opts.Quality)})
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(opts.Quality))
	}
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}

// Info describes a loaded tensor for logging and validation.
type Info struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Channels    int     `json:"channels"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// GetInfo returns basic information about a tensor.
func GetInfo(t *tensor.Tensor) Info {
	return Info{
		Width:       t.W,
		Height:      t.H,
		Channels:    t.C,
		AspectRatio: float64(t.W) / float64(t.H),
	}
}
