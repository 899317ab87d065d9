package domain

// Tour is a closed visiting order over matrix indices. Path has length
// n+1 with Path[0] == Path[n]; each index in [0,n) appears exactly once
// among the first n elements. TotalKm is the sum of consecutive directed
// matrix lookups along Path.
type Tour struct {
	Path    []int
	TotalKm float64
}

// Closed reports whether the path starts and ends at the same index.
func (t Tour) Closed() bool {
	return len(t.Path) >= 2 && t.Path[0] == t.Path[len(t.Path)-1]
}

// PathCost sums consecutive directed edges of path over m, including
// the closing edge if the caller put one in the path.
func PathCost(m DistanceMatrix, path []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += m[path[i]][path[i+1]]
	}
	return total
}
