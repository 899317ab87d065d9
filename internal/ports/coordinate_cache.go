package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// Port: durable mapping from a normalized place name to its resolved
// coordinates. Implementations are write-through: a successful Put is
// persisted before it returns, and Puts serialize with respect to each
// other. A missing or partially corrupt store loads as empty rather
// than failing.
type CoordinateCache interface {
	// Get returns the cached coordinates for key and whether the key
	// was present.
	Get(ctx context.Context, key string) (domain.Coordinates, bool, error)
	// Put stores coordinates for key; last successful write wins.
	Put(ctx context.Context, key string, c domain.Coordinates) error
}
