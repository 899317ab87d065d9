package domain

// Unreachable marks a pair with no known route. It is a large finite
// distance rather than NaN or +Inf so every downstream sum stays a plain
// numeric operation. Known approximation: for pathological inputs where
// most pairs are unreachable, sentinel costs can distort heuristic
// tie-breaks, but a tour is still produced.
const Unreachable = 999999.0

// DistanceMatrix holds directed pairwise travel distances in kilometers.
// It is square, has a zero diagonal, and is built once per request and
// never mutated afterward. matrix[i][j] may differ from matrix[j][i].
type DistanceMatrix [][]float64

// NewMatrix allocates a zeroed n×n matrix.
func NewMatrix(n int) DistanceMatrix {
	m := make(DistanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Len returns the number of nodes.
func (m DistanceMatrix) Len() int { return len(m) }

// Square reports whether every row has matrix length and the diagonal
// is zero.
func (m DistanceMatrix) Square() bool {
	for i, row := range m {
		if len(row) != len(m) {
			return false
		}
		if row[i] != 0 {
			return false
		}
	}
	return true
}
