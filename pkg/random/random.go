// Package random provides the parameter-resolution randomness for the
// augmentation engine. All draws go through an explicit Source handle so
// callers control seeding and can run independently-seeded streams side by
// side; there is no package-level RNG state.
package random

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrShapeMismatch is returned when a broadcast or length-matching rule is
// violated, e.g. a two-element argument list for a five-element draw.
var ErrShapeMismatch = errors.New("shape mismatch")

// Source is a seedable random stream. It is not safe for concurrent use;
// give each goroutine its own Source.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 draws from U(0,1).
func (s *Source) Float64() float64 { return s.rng.Float64() }

// Int63 draws a non-negative int64, used to derive child sources.
func (s *Source) Int63() int64 { return s.rng.Int63() }

// Uniform draws one value from U(low, high).
func (s *Source) Uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}

// UniformN draws n values; low and high are broadcast per Broadcast.
func (s *Source) UniformN(low, high []float64, n int) ([]float64, error) {
	lo, err := Broadcast(low, n)
	if err != nil {
		return nil, err
	}
	hi, err := Broadcast(high, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Uniform(lo[i], hi[i])
	}
	return out, nil
}

// LogUniform draws exp(U(log low, log high)); the geometric mean of the
// draws is sqrt(low*high).
func (s *Source) LogUniform(low, high float64) float64 {
	return math.Exp(s.Uniform(math.Log(low), math.Log(high)))
}

// LogUniformN draws n log-uniform values with broadcast bounds.
func (s *Source) LogUniformN(low, high []float64, n int) ([]float64, error) {
	lo, err := Broadcast(low, n)
	if err != nil {
		return nil, err
	}
	hi, err := Broadcast(high, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.LogUniform(lo[i], hi[i])
	}
	return out, nil
}

// Bool draws true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.rng.Float64() < p
}

// BoolN draws n booleans, each true with probability p.
func (s *Source) BoolN(p float64, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = s.Bool(p)
	}
	return out
}

// Broadcast stretches a one-element list to length n and passes a length-n
// list through. Any other length is a shape mismatch.
func Broadcast(vals []float64, n int) ([]float64, error) {
	switch {
	case len(vals) == n:
		return vals, nil
	case len(vals) == 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: list length %d vs requested count %d", ErrShapeMismatch, len(vals), n)
	}
}
