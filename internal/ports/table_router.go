package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// Port: a routing service that computes travel distances over a road
// network. Distances are in meters; a nil cell in the table result
// means the provider found no route for that pair.
type TableRouter interface {
	// Table returns the full pairwise distance matrix for coords in a
	// single call. Cell [i][j] is the directed travel distance from
	// coords[i] to coords[j], or nil when unreachable.
	Table(ctx context.Context, coords []domain.Coordinates) ([][]*float64, error)
	// Route returns the travel distance for a single origin/destination
	// pair.
	Route(ctx context.Context, from, to domain.Coordinates) (float64, error)
}
