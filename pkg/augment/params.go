package augment

import "fmt"

// Params holds resolved transform arguments. Values are restricted to
// float64, []float64, int, bool and []bool; the typed getters convert
// between the numeric kinds and report missing or mistyped parameters.
type Params map[string]any

// merged returns a copy of p with overrides layered on top.
func (p Params) merged(overrides Params) Params {
	out := make(Params, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Float returns a scalar numeric parameter.
func (p Params) Float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("parameter %s: expected number, got %T", name, v)
	}
	return f, nil
}

// Floats returns a numeric list parameter; a scalar is wrapped as a
// one-element list.
func (p Params) Floats(name string) ([]float64, error) {
	v, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	if f, ok := toFloat(v); ok {
		return []float64{f}, nil
	}
	fs, ok := toFloats(v)
	if !ok {
		return nil, fmt.Errorf("parameter %s: expected number list, got %T", name, v)
	}
	return fs, nil
}

// Int returns a scalar integer parameter.
func (p Params) Int(name string) (int, error) {
	f, err := p.Float(name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Bool returns a boolean parameter.
func (p Params) Bool(name string) (bool, error) {
	v, ok := p[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %s: expected bool, got %T", name, v)
	}
	return b, nil
}

// Bools returns a boolean list parameter; a scalar bool is wrapped.
func (p Params) Bools(name string) ([]bool, error) {
	v, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	switch b := v.(type) {
	case bool:
		return []bool{b}, nil
	case []bool:
		return b, nil
	default:
		return nil, fmt.Errorf("parameter %s: expected bool list, got %T", name, v)
	}
}

// Size returns a parameter as (h, w). A scalar means a square size; a
// two-element list is (h, w).
func (p Params) Size(name string) (int, int, error) {
	fs, err := p.Floats(name)
	if err != nil {
		return 0, 0, err
	}
	switch len(fs) {
	case 1:
		return int(fs[0]), int(fs[0]), nil
	case 2:
		return int(fs[0]), int(fs[1]), nil
	default:
		return 0, 0, fmt.Errorf("%w: parameter %s: size wants 1 or 2 elements, got %d", ErrShapeMismatch, name, len(fs))
	}
}

// String returns a string parameter.
func (p Params) String(name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s: expected string, got %T", name, v)
	}
	return s, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toFloats(v any) ([]float64, bool) {
	switch n := v.(type) {
	case []float64:
		return n, true
	case []float32:
		out := make([]float64, len(n))
		for i, f := range n {
			out[i] = float64(f)
		}
		return out, true
	case []int:
		out := make([]float64, len(n))
		for i, f := range n {
			out[i] = float64(f)
		}
		return out, true
	case []any:
		out := make([]float64, len(n))
		for i, e := range n {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
