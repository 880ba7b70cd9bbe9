package augment

import (
	"fmt"
	"sort"

	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
)

// ApplyOptions tunes a pipeline run. The zero value resolves randomness,
// applies no resize, and keeps the image's current sampling configuration.
type ApplyOptions struct {
	// SkipResolve reuses each transform's previous resolution instead of
	// drawing fresh randomness, e.g. to apply identical augmentation to a
	// paired mask.
	SkipResolve bool
	// Extra supplies per-call override arguments keyed by transform
	// descriptor; they are merged over the resolved arguments for this call
	// only.
	Extra map[*Transform]Params
	// Size, when non-nil, resizes to (h, w) before any transform runs.
	Size *[2]int
	// Sample, when non-nil, sets the resampling configuration on the clone.
	Sample *sampler.Options
}

// Apply resolves, orders and runs a transform list over an image.
//
// With no transforms and no target size the input is returned unchanged and
// uncloned. Otherwise the input is cloned first, so an error part-way leaves
// the caller's image untouched. All randomness for the run is drawn before
// the first transform is applied, independent of application order, and the
// list is stably sorted by execution slot so affine transforms always
// compose before coordinate warps, pixel ops and lighting regardless of
// caller order. The result stays lazy unless a pixel transform forced
// materialization.
func Apply(src *random.Source, tfms []*RandTransform, img *LazyImage, opts *ApplyOptions) (*LazyImage, error) {
	if opts == nil {
		opts = &ApplyOptions{}
	}
	if len(tfms) == 0 && opts.Size == nil {
		return img, nil
	}

	sorted := make([]*RandTransform, len(tfms))
	copy(sorted, tfms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order() < sorted[j].Order() })

	if !opts.SkipResolve {
		if err := Resolve(src, sorted); err != nil {
			return nil, err
		}
	}

	x := img.Clone()
	if opts.Sample != nil {
		x.SetSample(*opts.Sample)
	}
	if opts.Size != nil {
		if err := x.Resize(opts.Size[0], opts.Size[1]); err != nil {
			return nil, err
		}
	}

	for _, rt := range sorted {
		var err error
		x, err = rt.Do(x, opts.Extra[rt.Tfm])
		if err != nil {
			return nil, fmt.Errorf("apply: %w", err)
		}
	}
	return x, nil
}

// Resolve draws fresh randomness for every transform in the list.
func Resolve(src *random.Source, tfms []*RandTransform) error {
	for _, rt := range tfms {
		if err := rt.Resolve(src); err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
	}
	return nil
}
