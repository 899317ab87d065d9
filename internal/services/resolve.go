package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
	"tour-route-service/internal/ports"
)

// resolveWorkers bounds concurrent geocoding within one request.
// Per-provider pacing, not CPU, is the real constraint.
const resolveWorkers = 4

// Resolver turns place names into coordinates through an ordered chain
// of geocoding providers and query-rewrite variants, consulting and
// populating the coordinate cache.
//
// The chain trades precision for recall: a poorly specified name is
// retried with progressively broader region suffixes so it still
// resolves to something in-region rather than failing outright.
type Resolver struct {
	cache          ports.CoordinateCache
	providers      []ports.Geocoder
	regionSuffixes []string
}

// DefaultRegionSuffixes widen a query in order of increasing
// specificity loss.
var DefaultRegionSuffixes = []string{
	"India",
	"Maharashtra, India",
	"Karnataka, India",
	"Goa, India",
}

func NewResolver(cache ports.CoordinateCache, providers []ports.Geocoder, regionSuffixes []string) *Resolver {
	if regionSuffixes == nil {
		regionSuffixes = DefaultRegionSuffixes
	}
	return &Resolver{
		cache:          cache,
		providers:      providers,
		regionSuffixes: regionSuffixes,
	}
}

// queryVariants returns the ordered rewrite list for a place: the raw
// name first, then the name widened with each region suffix.
func (r *Resolver) queryVariants(place domain.Place) []string {
	raw := strings.TrimSpace(place.Raw)
	variants := make([]string, 0, 1+len(r.regionSuffixes))
	variants = append(variants, raw)
	for _, suffix := range r.regionSuffixes {
		variants = append(variants, raw+", "+suffix)
	}
	return variants
}

// Resolve returns the coordinates for one place.
//
// Order: cache, then each provider in chain order against the variant
// list. The first success is written through to the cache. Exhaustion
// yields *domain.GeocodeError: NotFound when at least one provider
// answered "no results", ProviderFailure when the whole chain failed
// at the transport level.
func (r *Resolver) Resolve(ctx context.Context, place domain.Place) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.Resolve")(&err)

	if cached, ok, cacheErr := r.cache.Get(ctx, place.Normalized); cacheErr != nil {
		log.Printf("coordinate cache read failed for %q: %v", place.Normalized, cacheErr)
	} else if ok {
		return cached, nil
	}

	var (
		attempts []string
		lastErr  error
		answered bool
	)

	for _, provider := range r.providers {
		for _, query := range r.queryVariants(place) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.Coordinates{}, ctxErr
			}

			attempts = append(attempts, provider.Name()+":"+query)

			coords, geocodeErr := provider.Geocode(ctx, query)
			if geocodeErr == nil {
				if !coords.Valid() {
					lastErr = fmt.Errorf("%s returned out-of-range coordinates for %q", provider.Name(), query)
					continue
				}
				if putErr := r.cache.Put(ctx, place.Normalized, coords); putErr != nil {
					log.Printf("coordinate cache write failed for %q: %v", place.Normalized, putErr)
				}
				return coords, nil
			}

			if errors.Is(geocodeErr, ports.ErrNoResults) {
				answered = true
				continue
			}
			if errors.Is(geocodeErr, context.Canceled) || errors.Is(geocodeErr, context.DeadlineExceeded) {
				return domain.Coordinates{}, geocodeErr
			}
			lastErr = geocodeErr
		}
	}

	kind := domain.GeocodeNotFound
	if !answered {
		kind = domain.GeocodeProviderFailure
	}
	return domain.Coordinates{}, &domain.GeocodeError{
		Kind:     kind,
		Place:    place,
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// ResolveAll resolves every place, geocoding distinct places
// concurrently with a bounded worker count. Results keep input order.
// The first failure cancels outstanding work: no tour can be computed
// with a missing coordinate.
func (r *Resolver) ResolveAll(ctx context.Context, places []domain.Place) ([]domain.Coordinates, error) {
	coords := make([]domain.Coordinates, len(places))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveWorkers)

	for i, place := range places {
		g.Go(func() error {
			c, err := r.Resolve(ctx, place)
			if err != nil {
				return err
			}
			coords[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return coords, nil
}
