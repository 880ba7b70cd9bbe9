package tfms

import "github.com/menta2k/image-augment/pkg/augment"

// All returns every catalog transform.
func All() []*augment.Transform {
	return []*augment.Transform{
		Rotate, Zoom, Squish,
		Jitter, ZoomSquish,
		FlipLR, Pad, Crop,
		Brightness, Contrast,
	}
}

// ByName looks up a catalog transform, used when policy files name
// transforms as strings.
func ByName(name string) (*augment.Transform, bool) {
	for _, t := range All() {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
