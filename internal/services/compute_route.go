package services

import (
	"context"
	"fmt"
	"strings"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
)

// maxLocations caps one request; beyond this the exact/heuristic split
// and the table-routing call both stop being reasonable.
const maxLocations = 25

// RouteResult is the plain-data answer handed back to callers: the
// visiting order, the matrix behind it, and which algorithm produced
// the tour.
type RouteResult struct {
	Locations       []string
	Coordinates     []domain.Coordinates
	Path            []int
	PathNames       []string
	TotalDistanceKm float64
	Matrix          domain.DistanceMatrix
	Algorithm       string
}

// Planner composes the pipeline: resolve names, build the matrix,
// optimize the tour.
type Planner struct {
	resolver *Resolver
	builder  *MatrixBuilder
}

func NewPlanner(resolver *Resolver, builder *MatrixBuilder) *Planner {
	return &Planner{resolver: resolver, builder: builder}
}

// ComputeRoute runs the full pipeline for a list of place names.
// Input validation happens before any network activity and is the only
// failure mode that does not degrade: fewer than 2 usable names, or
// more than maxLocations, rejects the request outright. Geocoding
// failures propagate; matrix building never fails.
func (p *Planner) ComputeRoute(ctx context.Context, names []string) (_ *RouteResult, err error) {
	defer obs.Time(ctx, "route.Compute")(&err)

	places := domain.NewPlaces(names)
	if len(places) < 2 {
		return nil, &domain.InvalidInputError{Reason: "at least 2 locations are required"}
	}
	if len(places) > maxLocations {
		return nil, &domain.InvalidInputError{Reason: fmt.Sprintf("maximum %d locations allowed", maxLocations)}
	}

	coords, err := p.resolver.ResolveAll(ctx, places)
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	matrix := p.builder.Build(ctx, coords)

	tour, algorithm, err := Optimize(matrix)
	if err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}

	locations := make([]string, len(places))
	for i, place := range places {
		locations[i] = strings.TrimSpace(place.Raw)
	}

	pathNames := make([]string, len(tour.Path))
	for i, idx := range tour.Path {
		pathNames[i] = locations[idx]
	}

	return &RouteResult{
		Locations:       locations,
		Coordinates:     coords,
		Path:            tour.Path,
		PathNames:       pathNames,
		TotalDistanceKm: tour.TotalKm,
		Matrix:          matrix,
		Algorithm:       algorithm,
	}, nil
}
