package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
	"tour-route-service/internal/ports"
)

// repairWorkers bounds concurrent pairwise repair queries; repairs are
// independent once the table result is known.
const repairWorkers = 5

// MatrixBuilder produces the pairwise travel-distance matrix for a set
// of resolved coordinates. It never fails: the three-tier fallback
// (table call, pairwise repair, great-circle estimate) always yields a
// usable matrix, degrading in quality rather than erroring.
type MatrixBuilder struct {
	router ports.TableRouter
}

func NewMatrixBuilder(router ports.TableRouter) *MatrixBuilder {
	return &MatrixBuilder{router: router}
}

// Build returns the n×n distance matrix in kilometers, zero diagonal,
// with domain.Unreachable marking pairs no tier could route.
func (b *MatrixBuilder) Build(ctx context.Context, coords []domain.Coordinates) domain.DistanceMatrix {
	defer obs.Time(ctx, "matrix.Build")(nil)

	n := len(coords)
	matrix := domain.NewMatrix(n)

	cells, err := b.router.Table(ctx, coords)
	if err != nil {
		log.Printf("table routing failed, falling back to great-circle estimates: %v", err)
		return haversineMatrix(coords)
	}

	type pair struct{ i, j int }
	var unreachable []pair

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				matrix[i][j] = 0
			case cells[i][j] == nil:
				matrix[i][j] = domain.Unreachable
				unreachable = append(unreachable, pair{i, j})
			default:
				matrix[i][j] = *cells[i][j] / 1000.0
			}
		}
	}

	if len(unreachable) == 0 {
		return matrix
	}

	// Pairwise repair recovers isolated routing gaps without abandoning
	// the accurate data already obtained. Each worker writes a distinct
	// cell, so no locking is needed.
	log.Printf("table returned %d unreachable pairs, attempting pairwise repair", len(unreachable))

	g := new(errgroup.Group)
	g.SetLimit(repairWorkers)

	for _, p := range unreachable {
		g.Go(func() error {
			meters, routeErr := b.router.Route(ctx, coords[p.i], coords[p.j])
			if routeErr != nil {
				// Leave the sentinel; a repair failure is not fatal.
				log.Printf("pairwise repair (%d,%d) failed: %v", p.i, p.j, routeErr)
				return nil
			}
			matrix[p.i][p.j] = meters / 1000.0
			return nil
		})
	}
	_ = g.Wait()

	return matrix
}

// haversineMatrix is the last-resort estimate: straight-line distances
// with no road network, but it needs no network I/O and always succeeds
// for valid coordinates.
func haversineMatrix(coords []domain.Coordinates) domain.DistanceMatrix {
	n := len(coords)
	matrix := domain.NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			matrix[i][j] = coords[i].HaversineKm(coords[j])
		}
	}
	return matrix
}
