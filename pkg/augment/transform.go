package augment

import (
	"fmt"
	"sort"

	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
	"github.com/menta2k/image-augment/pkg/tensor"
)

// Category tags a transform with its composition rule.
type Category int

const (
	// CategoryAffine transforms compose by matrix multiplication.
	CategoryAffine Category = iota
	// CategoryCoord transforms rewrite the coordinate flow field.
	CategoryCoord
	// CategoryPixel transforms mutate raw pixels directly.
	CategoryPixel
	// CategoryLighting transforms update the logit-space buffer.
	CategoryLighting
)

// Execution order slots: affine composes before coordinate warps, which run
// before padding, plain pixel ops and finally lighting. Padding has its own
// slot so pad-style pixel transforms can opt into running before crops.
const (
	OrderAffine int = iota
	OrderCoord
	OrderPadding
	OrderPixel
	OrderLighting
)

// DefaultOrder returns the execution slot for a category.
func (c Category) DefaultOrder() int {
	switch c {
	case CategoryAffine:
		return OrderAffine
	case CategoryCoord:
		return OrderCoord
	case CategoryLighting:
		return OrderLighting
	}
	return OrderPixel
}

func (c Category) String() string {
	switch c {
	case CategoryAffine:
		return "affine"
	case CategoryCoord:
		return "coord"
	case CategoryPixel:
		return "pixel"
	case CategoryLighting:
		return "lighting"
	}
	return "unknown"
}

// AffineFunc computes a 3×3 matrix from resolved parameters.
type AffineFunc func(p Params) (sampler.Matrix, error)

// CoordFunc computes a new flow field from the current one and the image
// shape.
type CoordFunc func(flow *sampler.FlowField, shape Shape, p Params) (*sampler.FlowField, error)

// PixelFunc computes new raw pixels from the current ones.
type PixelFunc func(px *tensor.Tensor, p Params) (*tensor.Tensor, error)

// LightingFunc computes a new logit-space buffer from the current one.
type LightingFunc func(logit *tensor.Tensor, p Params) (*tensor.Tensor, error)

// ParamSpec declares one transform parameter: its name, an optional default,
// and an optional distribution annotation that makes it randomizable.
type ParamSpec struct {
	Name       string
	Default    any
	HasDefault bool
	Dist       *random.Dist
}

// Transform binds a pure function to a category, an execution order and its
// parameter declarations. Immutable once built; build one per transform at
// package init and share it.
type Transform struct {
	name     string
	category Category
	order    int

	affineFn   AffineFunc
	coordFn    CoordFunc
	pixelFn    PixelFunc
	lightingFn LightingFunc

	params []ParamSpec
}

// Builder assembles a Transform declaratively. There is no reflection: every
// parameter, default and randomization annotation is declared explicitly.
type Builder struct {
	t Transform
}

// Affine starts a builder for an affine-matrix transform.
func Affine(name string, fn AffineFunc) *Builder {
	return &Builder{t: Transform{name: name, category: CategoryAffine, order: OrderAffine, affineFn: fn}}
}

// Coord starts a builder for a coordinate-warp transform.
func Coord(name string, fn CoordFunc) *Builder {
	return &Builder{t: Transform{name: name, category: CategoryCoord, order: OrderCoord, coordFn: fn}}
}

// Pixel starts a builder for a direct pixel transform.
func Pixel(name string, fn PixelFunc) *Builder {
	return &Builder{t: Transform{name: name, category: CategoryPixel, order: OrderPixel, pixelFn: fn}}
}

// Lighting starts a builder for a logit-space lighting transform.
func Lighting(name string, fn LightingFunc) *Builder {
	return &Builder{t: Transform{name: name, category: CategoryLighting, order: OrderLighting, lightingFn: fn}}
}

// Order overrides the execution slot, e.g. OrderPadding for pad-style pixel
// transforms that must run before crops.
func (b *Builder) Order(order int) *Builder {
	b.t.order = order
	return b
}

// Param declares a fixed parameter with no default; callers must supply it.
func (b *Builder) Param(name string) *Builder {
	b.t.params = append(b.t.params, ParamSpec{Name: name})
	return b
}

// Default declares a fixed parameter with a default value.
func (b *Builder) Default(name string, def any) *Builder {
	b.t.params = append(b.t.params, ParamSpec{Name: name, Default: def, HasDefault: true})
	return b
}

// Rand declares a randomizable parameter: when a raw value is supplied it is
// fed to dist as distribution arguments; with no raw value dist samples with
// its built-in defaults.
func (b *Builder) Rand(name string, dist random.Dist) *Builder {
	b.t.params = append(b.t.params, ParamSpec{Name: name, Dist: &dist})
	return b
}

// RandDefault declares a randomizable parameter that falls back to def when
// the transform is used without randomization.
func (b *Builder) RandDefault(name string, dist random.Dist, def any) *Builder {
	b.t.params = append(b.t.params, ParamSpec{Name: name, Dist: &dist, Default: def, HasDefault: true})
	return b
}

// Build finalizes the transform.
func (b *Builder) Build() *Transform {
	t := b.t
	return &t
}

// Name returns the transform's registered name.
func (t *Transform) Name() string { return t.name }

// Category returns the composition rule tag.
func (t *Transform) Category() Category { return t.category }

// Order returns the execution slot.
func (t *Transform) Order() int { return t.order }

// Params returns the parameter declarations.
func (t *Transform) Params() []ParamSpec { return t.params }

func (t *Transform) String() string {
	return fmt.Sprintf("%s (%s)", t.name, t.category)
}

func (t *Transform) param(name string) *ParamSpec {
	for i := range t.params {
		if t.params[i].Name == name {
			return &t.params[i]
		}
	}
	return nil
}

// Apply runs the transform on img immediately with fully resolved
// parameters, dispatching on the category's composition rule.
func (t *Transform) Apply(img *LazyImage, p Params) (*LazyImage, error) {
	var err error
	switch t.category {
	case CategoryAffine:
		var m sampler.Matrix
		if m, err = t.affineFn(p); err == nil {
			img.ApplyAffine(m)
		}
	case CategoryCoord:
		err = img.ApplyCoord(t.coordFn, p)
	case CategoryPixel:
		err = img.ApplyPixel(t.pixelFn, p)
	case CategoryLighting:
		err = img.ApplyLighting(t.lightingFn, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	return img, nil
}

// RawArgs are the declarative, possibly distribution-typed arguments bound
// to a randomized transform. For an annotated parameter the value supplies
// the distribution's arguments (e.g. degrees: [-30, 30] draws
// uniform(-30, 30)); for a plain parameter it is used verbatim.
type RawArgs map[string]any

// Rand binds the transform to raw arguments for deferred, randomized
// application with p = 1.
func (t *Transform) Rand(args RawArgs) *RandTransform {
	return t.RandP(args, 1)
}

// RandP binds the transform to raw arguments and an application
// probability.
func (t *Transform) RandP(args RawArgs, p float64) *RandTransform {
	return &RandTransform{Tfm: t, Args: args, P: p, IsRandom: true, DoRun: true}
}

// RandTransform is a Transform bound to raw argument values and an
// application probability. Resolve draws fresh randomness; Do applies the
// transform with the resolved arguments.
type RandTransform struct {
	Tfm      *Transform
	Args     RawArgs
	P        float64
	IsRandom bool

	Resolved Params
	DoRun    bool
}

// Fixed disables randomization: resolution merges raw values over defaults
// verbatim and the transform always runs.
func (rt *RandTransform) Fixed() *RandTransform {
	rt.IsRandom = false
	return rt
}

// Order returns the bound transform's execution slot.
func (rt *RandTransform) Order() int { return rt.Tfm.order }

// Resolve populates Resolved and DoRun with fresh randomness from src.
// Raw values for annotated parameters are sampled through their
// distribution; plain raw values pass through; declared defaults fill the
// gaps; annotated parameters with no raw value sample with the
// distribution's own defaults. Finally a Bernoulli(p) trial decides DoRun.
//
// Argument keys are visited in sorted order so two resolutions from
// identically seeded sources produce identical results.
func (rt *RandTransform) Resolve(src *random.Source) error {
	if !rt.IsRandom {
		rt.Resolved = make(Params, len(rt.Args))
		for _, spec := range rt.Tfm.params {
			if spec.HasDefault {
				rt.Resolved[spec.Name] = spec.Default
			}
		}
		for k, v := range rt.Args {
			rt.Resolved[k] = v
		}
		rt.DoRun = true
		return nil
	}

	resolved := make(Params, len(rt.Args))
	keys := make([]string, 0, len(rt.Args))
	for k := range rt.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := rt.Args[k]
		spec := rt.Tfm.param(k)
		if spec != nil && spec.Dist != nil {
			args, err := distArgs(v)
			if err != nil {
				return fmt.Errorf("%s: parameter %s: %w", rt.Tfm.name, k, err)
			}
			sampled, err := spec.Dist.Sample(src, args...)
			if err != nil {
				return fmt.Errorf("%s: parameter %s: %w", rt.Tfm.name, k, err)
			}
			resolved[k] = sampled
			continue
		}
		resolved[k] = v
	}

	for _, spec := range rt.Tfm.params {
		if _, ok := resolved[spec.Name]; ok {
			continue
		}
		if spec.HasDefault {
			resolved[spec.Name] = spec.Default
		}
	}
	for _, spec := range rt.Tfm.params {
		if _, ok := resolved[spec.Name]; ok || spec.Dist == nil {
			continue
		}
		sampled, err := spec.Dist.Sample(src)
		if err != nil {
			return fmt.Errorf("%s: parameter %s: %w", rt.Tfm.name, spec.Name, err)
		}
		resolved[spec.Name] = sampled
	}

	rt.Resolved = resolved
	rt.DoRun = src.Bool(rt.P)
	return nil
}

// Do applies the bound transform with the resolved arguments, call-site
// overrides taking precedence. When the resolution's Bernoulli trial came up
// false the image passes through untouched.
func (rt *RandTransform) Do(img *LazyImage, overrides Params) (*LazyImage, error) {
	if !rt.DoRun {
		return img, nil
	}
	return rt.Tfm.Apply(img, rt.Resolved.merged(overrides))
}

// distArgs converts a raw annotated value into distribution arguments.
func distArgs(v any) ([]float64, error) {
	if v == nil {
		return nil, nil
	}
	if f, ok := toFloat(v); ok {
		return []float64{f}, nil
	}
	if fs, ok := toFloats(v); ok {
		return fs, nil
	}
	return nil, fmt.Errorf("cannot use %T as distribution arguments", v)
}
