package services

import (
	"errors"
	"fmt"

	"tour-route-service/internal/domain"
)

// Algorithm labels reported alongside an optimized tour.
const (
	AlgorithmExact     = "exact"
	AlgorithmHeuristic = "heuristic"
)

// exactLimit is the largest instance solved by exhaustive enumeration.
// Beyond it, (n-1)! is no longer affordable and the multi-start
// nearest-neighbor heuristic takes over, bounding runtime at O(n³).
const exactLimit = 10

// Optimize computes the minimum-cost closed tour over the matrix and
// reports which algorithm produced it. Sentinel edges are ordinary
// large costs, so a tour is produced even when some pairs are
// unreachable.
func Optimize(matrix domain.DistanceMatrix) (domain.Tour, string, error) {
	n := matrix.Len()
	if n < 2 {
		return domain.Tour{}, "", errors.New("optimize: at least 2 nodes are required")
	}
	if !matrix.Square() {
		return domain.Tour{}, "", fmt.Errorf("optimize: matrix must be square with a zero diagonal")
	}

	if n <= exactLimit {
		return exactTour(matrix), AlgorithmExact, nil
	}
	return multiStartNearestNeighbor(matrix), AlgorithmHeuristic, nil
}

// exactTour fixes index 0 as the start and enumerates permutations of
// the remaining indices in lexicographic order. Strict less-than keeps
// the first-encountered permutation on cost ties, so results are
// reproducible.
func exactTour(matrix domain.DistanceMatrix) domain.Tour {
	n := matrix.Len()

	perm := make([]int, n-1)
	for i := range perm {
		perm[i] = i + 1
	}

	var bestPath []int
	bestCost := -1.0

	for {
		cost := matrix[0][perm[0]]
		for i := 0; i+1 < len(perm); i++ {
			cost += matrix[perm[i]][perm[i+1]]
		}
		cost += matrix[perm[len(perm)-1]][0]

		if bestCost < 0 || cost < bestCost {
			bestCost = cost
			bestPath = append(bestPath[:0], perm...)
		}

		if !nextPermutation(perm) {
			break
		}
	}

	path := make([]int, 0, n+1)
	path = append(path, 0)
	path = append(path, bestPath...)
	path = append(path, 0)

	return domain.Tour{Path: path, TotalKm: bestCost}
}

// nextPermutation rearranges p into its lexicographic successor,
// returning false when p was already the final permutation.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]

	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

// NearestNeighborFrom builds a closed tour by repeatedly visiting the
// nearest unvisited node, starting and ending at start. Distance ties
// break to the lowest index (ascending scan with strict less-than).
func NearestNeighborFrom(matrix domain.DistanceMatrix, start int) domain.Tour {
	n := matrix.Len()

	visited := make([]bool, n)
	visited[start] = true

	path := make([]int, 0, n+1)
	path = append(path, start)

	current := start
	total := 0.0

	for len(path) < n {
		nearest := -1
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if nearest < 0 || matrix[current][j] < matrix[current][nearest] {
				nearest = j
			}
		}

		total += matrix[current][nearest]
		current = nearest
		visited[current] = true
		path = append(path, current)
	}

	total += matrix[current][start]
	path = append(path, start)

	return domain.Tour{Path: path, TotalKm: total}
}

// multiStartNearestNeighbor runs the greedy construction from every
// start index and keeps the cheapest tour. Strict less-than keeps the
// earliest start on total-cost ties.
func multiStartNearestNeighbor(matrix domain.DistanceMatrix) domain.Tour {
	best := NearestNeighborFrom(matrix, 0)
	for s := 1; s < matrix.Len(); s++ {
		if candidate := NearestNeighborFrom(matrix, s); candidate.TotalKm < best.TotalKm {
			best = candidate
		}
	}
	return best
}
