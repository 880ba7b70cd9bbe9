// Package imageaugment provides randomized image augmentation for training
// pipelines.
//
// The engine applies geometric and photometric transforms to image tensors
// with minimal redundant work: affine transforms are merged into a single
// matrix, coordinate warps into a single flow field, and lighting changes
// into a logit-space buffer, so any number of queued transforms cost one
// resampling pass when the pixels are finally read.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		imageaugment "github.com/menta2k/image-augment"
//		"github.com/menta2k/image-augment/pkg/augment"
//		"github.com/menta2k/image-augment/pkg/tfms"
//	)
//
//	func main() {
//		// Declare a policy: each entry is a transform bound to raw
//		// argument ranges and an application probability.
//		engine := imageaugment.New(
//			tfms.Rotate.RandP(augment.RawArgs{"degrees": []float64{-10, 10}}, 0.75),
//			tfms.FlipLR.RandP(nil, 0.5),
//			tfms.Contrast.Rand(augment.RawArgs{"scale": []float64{0.8, 1.25}}),
//		)
//
//		// Write four augmented variants of a photo.
//		paths, err := engine.AugmentFile("photo.jpg", "out", 4)
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("wrote %d variants", len(paths))
//	}
//
// The package consists of five main components:
//
// 1. Tensor (pkg/tensor): C×H×W float32 pixel buffers
// 2. Random (pkg/random): seedable parameter resolution draws
// 3. Sampler (pkg/sampler): flow fields and grid resampling
// 4. Augment (pkg/augment): lazy images, transforms and the pipeline executor
// 5. Tfms (pkg/tfms): the predefined transform catalog
//
// Randomness is drawn from an explicit seedable source, so runs are
// reproducible; transforms are re-resolved once per image. Images are
// single-owner values: to augment a batch in parallel, give each goroutine
// its own image and its own engine or source.
package imageaugment

import (
	"fmt"

	"github.com/menta2k/image-augment/internal/utils"
	"github.com/menta2k/image-augment/pkg/augment"
	"github.com/menta2k/image-augment/pkg/imageio"
	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
	"github.com/menta2k/image-augment/pkg/tensor"
	"github.com/menta2k/image-augment/pkg/tfms"
)

// Version of the image augment library
const Version = "1.0.0"

// Options tunes an Engine beyond its transform list.
type Options struct {
	// Seed initializes the engine's random source.
	Seed int64
	// Size, when non-nil, resizes every image to (h, w) before the
	// transforms run.
	Size *[2]int
	// Sample overrides the resampling mode and edge handling.
	Sample *sampler.Options
	// Save controls how AugmentFile encodes its outputs.
	Save imageio.SaveOptions
}

// Engine bundles an augmentation policy with a random source.
type Engine struct {
	src  *random.Source
	tfms []*augment.RandTransform
	opts Options
}

// New creates an Engine with the given policy and default options.
func New(transforms ...*augment.RandTransform) *Engine {
	return NewWithOptions(Options{Seed: 42, Save: imageio.DefaultSaveOptions()}, transforms...)
}

// NewWithOptions creates an Engine with explicit options.
func NewWithOptions(opts Options, transforms ...*augment.RandTransform) *Engine {
	if opts.Save.Quality == 0 {
		opts.Save.Quality = imageio.DefaultSaveOptions().Quality
	}
	return &Engine{
		src:  random.NewSource(opts.Seed),
		tfms: transforms,
		opts: opts,
	}
}

// DefaultPolicy returns a reasonable general-purpose policy: slight
// rotation, zoom, horizontal flips and mild lighting changes.
func DefaultPolicy() []*augment.RandTransform {
	return []*augment.RandTransform{
		tfms.Rotate.RandP(augment.RawArgs{"degrees": []float64{-10, 10}}, 0.75),
		tfms.Zoom.RandP(augment.RawArgs{"scale": []float64{1.0, 1.1}}, 0.75),
		tfms.FlipLR.RandP(nil, 0.5),
		tfms.Brightness.RandP(augment.RawArgs{"change": []float64{0.4, 0.6}}, 0.75),
		tfms.Contrast.RandP(augment.RawArgs{"scale": []float64{0.8, 1.25}}, 0.75),
	}
}

// Transforms returns the engine's policy.
func (e *Engine) Transforms() []*augment.RandTransform { return e.tfms }

// Augment applies the policy to an image with fresh randomness, returning a
// new lazy image. The input is never modified.
func (e *Engine) Augment(img *augment.LazyImage) (*augment.LazyImage, error) {
	return augment.Apply(e.src, e.tfms, img, &augment.ApplyOptions{
		Size:   e.opts.Size,
		Sample: e.opts.Sample,
	})
}

// AugmentTensor applies the policy to a raw pixel tensor and materializes
// the result.
func (e *Engine) AugmentTensor(t *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := e.Augment(augment.NewImage(t))
	if err != nil {
		return nil, err
	}
	return out.Data()
}

// AugmentFile loads an image, writes n augmented variants into outDir and
// returns their paths.
func (e *Engine) AugmentFile(inputPath, outputDir string, n int) ([]string, error) {
	t, err := imageio.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	if err := utils.EnsureDir(outputDir); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	img := augment.NewImage(t)
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out, err := e.Augment(img)
		if err != nil {
			return nil, fmt.Errorf("augmentation failed: %w", err)
		}
		data, err := out.Data()
		if err != nil {
			return nil, fmt.Errorf("materialization failed: %w", err)
		}
		path := utils.VariantFilename(inputPath, outputDir, i, e.opts.Save.Format)
		if err := imageio.Save(data, path, e.opts.Save); err != nil {
			return nil, fmt.Errorf("failed to save variant %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
