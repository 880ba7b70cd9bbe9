package sampler

// Matrix is a 3×3 homogeneous transform matrix in row-major order. The last
// row is (0, 0, 1) for every transform the engine composes.
type Matrix [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Mul returns m·o. Composing transforms by right-multiplication makes later
// transforms apply after earlier ones in image space.
func (m Matrix) Mul(o Matrix) Matrix {
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var acc float64
			for k := 0; k < 3; k++ {
				acc += m[i][k] * o[k][j]
			}
			out[i][j] = acc
		}
	}
	return out
}
