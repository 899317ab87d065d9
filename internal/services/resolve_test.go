package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

// mapCache is an in-memory CoordinateCache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.Coordinates
	puts    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]domain.Coordinates)}
}

func (c *mapCache) Get(_ context.Context, key string) (domain.Coordinates, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, coords domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = coords
	c.puts++
	return nil
}

// fakeGeocoder answers from a query->coords map; everything else is
// ErrNoResults, or err when set.
type fakeGeocoder struct {
	mu      sync.Mutex
	name    string
	results map[string]domain.Coordinates
	err     error
	queries []string
}

func (g *fakeGeocoder) Name() string { return g.name }

func (g *fakeGeocoder) Geocode(_ context.Context, query string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, query)

	if g.err != nil {
		return domain.Coordinates{}, g.err
	}
	if c, ok := g.results[query]; ok {
		return c, nil
	}
	return domain.Coordinates{}, ports.ErrNoResults
}

var pune = domain.Coordinates{Lat: 18.5204, Lon: 73.8567}

func TestResolveCacheHitSkipsProviders(t *testing.T) {
	cache := newMapCache()
	cache.entries["pune"] = pune
	primary := &fakeGeocoder{name: "photon"}

	r := NewResolver(cache, []ports.Geocoder{primary}, nil)
	got, err := r.Resolve(context.Background(), domain.NewPlace(" Pune "))
	require.NoError(t, err)

	assert.Equal(t, pune, got)
	assert.Empty(t, primary.queries, "cache hit must not touch the network")
}

func TestResolvePrimaryRawQueryWins(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon", results: map[string]domain.Coordinates{"Pune": pune}}
	secondary := &fakeGeocoder{name: "nominatim"}

	r := NewResolver(cache, []ports.Geocoder{primary, secondary}, nil)
	got, err := r.Resolve(context.Background(), domain.NewPlace("Pune"))
	require.NoError(t, err)

	assert.Equal(t, pune, got)
	assert.Equal(t, []string{"Pune"}, primary.queries)
	assert.Empty(t, secondary.queries)

	// First success is written through to the cache.
	cached, ok, _ := cache.Get(context.Background(), "pune")
	assert.True(t, ok)
	assert.Equal(t, pune, cached)
}

func TestResolveWidensQueryVariants(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon", results: map[string]domain.Coordinates{
		"Shivajinagar, Maharashtra, India": pune,
	}}

	r := NewResolver(cache, []ports.Geocoder{primary}, nil)
	got, err := r.Resolve(context.Background(), domain.NewPlace("Shivajinagar"))
	require.NoError(t, err)

	assert.Equal(t, pune, got)
	assert.Equal(t, []string{
		"Shivajinagar",
		"Shivajinagar, India",
		"Shivajinagar, Maharashtra, India",
	}, primary.queries, "variants must be tried in order of increasing specificity loss")
}

func TestResolveFallsBackToSecondaryProvider(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon"}
	secondary := &fakeGeocoder{name: "nominatim", results: map[string]domain.Coordinates{
		"Ponda, Goa, India": {Lat: 15.4027, Lon: 74.0078},
	}}

	r := NewResolver(cache, []ports.Geocoder{primary, secondary}, nil)
	got, err := r.Resolve(context.Background(), domain.NewPlace("Ponda"))
	require.NoError(t, err)

	assert.Equal(t, domain.Coordinates{Lat: 15.4027, Lon: 74.0078}, got)
	assert.Len(t, primary.queries, 5, "primary must exhaust all variants first")
}

func TestResolveNotFoundCarriesAttempts(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon"}
	secondary := &fakeGeocoder{name: "nominatim"}

	r := NewResolver(cache, []ports.Geocoder{primary, secondary}, nil)
	_, err := r.Resolve(context.Background(), domain.NewPlace("Atlantis"))

	var ge *domain.GeocodeError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, domain.GeocodeNotFound, ge.Kind)
	assert.Equal(t, "atlantis", ge.Place.Normalized)
	// 2 providers x (raw + 4 region suffixes).
	assert.Len(t, ge.Attempts, 10)
	assert.Equal(t, "photon:Atlantis", ge.Attempts[0])
	assert.Equal(t, 0, cache.puts)
}

func TestResolveProviderFailureWhenChainNeverAnswers(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon", err: errors.New("connect timeout")}
	secondary := &fakeGeocoder{name: "nominatim", err: errors.New("connect timeout")}

	r := NewResolver(cache, []ports.Geocoder{primary, secondary}, nil)
	_, err := r.Resolve(context.Background(), domain.NewPlace("Pune"))

	var ge *domain.GeocodeError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, domain.GeocodeProviderFailure, ge.Kind)
	assert.ErrorContains(t, ge.Cause, "connect timeout")
}

func TestResolveAllPreservesInputOrder(t *testing.T) {
	cache := newMapCache()
	mumbaiC := domain.Coordinates{Lat: 19.076, Lon: 72.8777}
	delhiC := domain.Coordinates{Lat: 28.7041, Lon: 77.1025}
	primary := &fakeGeocoder{name: "photon", results: map[string]domain.Coordinates{
		"Mumbai": mumbaiC,
		"Delhi":  delhiC,
		"Pune":   pune,
	}}

	r := NewResolver(cache, []ports.Geocoder{primary}, nil)
	coords, err := r.ResolveAll(context.Background(), domain.NewPlaces([]string{"Mumbai", "Pune", "Delhi"}))
	require.NoError(t, err)

	assert.Equal(t, []domain.Coordinates{mumbaiC, pune, delhiC}, coords)
	assert.Equal(t, 3, cache.puts)
}

func TestResolveAllPropagatesFirstFailure(t *testing.T) {
	cache := newMapCache()
	primary := &fakeGeocoder{name: "photon", results: map[string]domain.Coordinates{"Mumbai": {Lat: 19, Lon: 72}}}

	r := NewResolver(cache, []ports.Geocoder{primary}, nil)
	_, err := r.ResolveAll(context.Background(), domain.NewPlaces([]string{"Mumbai", "Nowhereville"}))

	var ge *domain.GeocodeError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "nowhereville", ge.Place.Normalized)
}
