package augment

import (
	"errors"

	"github.com/menta2k/image-augment/pkg/random"
	"github.com/menta2k/image-augment/pkg/sampler"
)

// Error taxonomy for the engine. All of these are precondition violations
// detected at composition or resolution time; none are retryable, and a
// pipeline call that returns one has not touched the caller's image.
var (
	// ErrShapeMismatch is a broadcast or length-matching violation.
	ErrShapeMismatch = random.ErrShapeMismatch
	// ErrInvalidState is returned when a resize is requested on an image
	// that already has a pending coordinate flow.
	ErrInvalidState = errors.New("invalid image state")
	// ErrUnsupportedConfig is a sampling mode/edge combination with no
	// defined semantics.
	ErrUnsupportedConfig = sampler.ErrUnsupportedConfig
	// ErrMissingParameter is returned when a transform is invoked without a
	// required parameter and no default or random annotation covers it.
	ErrMissingParameter = errors.New("missing parameter")
)
