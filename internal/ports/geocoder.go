package ports

import (
	"context"
	"errors"

	"tour-route-service/internal/domain"
)

// ErrNoResults signals that a geocoder answered but had nothing for
// the query. Distinct from transport failures, which surface as
// *domain.FetchError.
var ErrNoResults = errors.New("geocode: no results")

// Port: a boundary for resolving a free-text query to coordinates.
type Geocoder interface {
	// Name identifies the provider in diagnostics and attempt logs.
	Name() string
	// Geocode returns the first matching coordinates for query, or
	// ErrNoResults when the provider has no match.
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
