package random

import "fmt"

// Dist is a named distribution that a transform parameter can be annotated
// with. The raw value attached to a randomized transform supplies the
// distribution's arguments: for Uniform, (low, high) draws one value and
// (low, high, n) draws a slice of n. Invoked with no arguments, each
// distribution falls back to its built-in defaults.
type Dist struct {
	Name   string
	sample func(s *Source, args []float64) (any, error)
}

// Sample draws from the distribution using s.
func (d Dist) Sample(s *Source, args ...float64) (any, error) {
	v, err := d.sample(s, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return v, nil
}

// Uniform draws from U(low, high); defaults to U(0, 1). A single argument is
// a degenerate draw fixing the value, so a scalar raw value pins the
// parameter.
var Uniform = Dist{
	Name: "uniform",
	sample: func(s *Source, args []float64) (any, error) {
		switch len(args) {
		case 0:
			return s.Uniform(0, 1), nil
		case 1:
			return args[0], nil
		case 2:
			return s.Uniform(args[0], args[1]), nil
		case 3:
			return s.UniformN([]float64{args[0]}, []float64{args[1]}, int(args[2]))
		default:
			return nil, fmt.Errorf("%w: want 0 to 3 args, got %d", ErrShapeMismatch, len(args))
		}
	},
}

// LogUniform draws exp(U(log low, log high)); defaults to bounds (0.5, 2),
// symmetric about 1 in log space. Like Uniform, a single argument fixes the
// value.
var LogUniform = Dist{
	Name: "log_uniform",
	sample: func(s *Source, args []float64) (any, error) {
		switch len(args) {
		case 0:
			return s.LogUniform(0.5, 2), nil
		case 1:
			return args[0], nil
		case 2:
			return s.LogUniform(args[0], args[1]), nil
		case 3:
			return s.LogUniformN([]float64{args[0]}, []float64{args[1]}, int(args[2]))
		default:
			return nil, fmt.Errorf("%w: want 0 to 3 args, got %d", ErrShapeMismatch, len(args))
		}
	},
}

// RandBool draws true with probability p; defaults to p = 0.5.
var RandBool = Dist{
	Name: "rand_bool",
	sample: func(s *Source, args []float64) (any, error) {
		switch len(args) {
		case 0:
			return s.Bool(0.5), nil
		case 1:
			return s.Bool(args[0]), nil
		case 2:
			return s.BoolN(args[0], int(args[1])), nil
		default:
			return nil, fmt.Errorf("%w: want 0, 1 or 2 args, got %d", ErrShapeMismatch, len(args))
		}
	},
}

// ByName looks up a built-in distribution, used when policies name
// distributions in config files.
func ByName(name string) (Dist, bool) {
	switch name {
	case Uniform.Name:
		return Uniform, true
	case LogUniform.Name:
		return LogUniform, true
	case RandBool.Name:
		return RandBool, true
	}
	return Dist{}, false
}
