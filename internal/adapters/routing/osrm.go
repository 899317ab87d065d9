package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"tour-route-service/internal/adapters/fetch"
	"tour-route-service/internal/domain"
)

// OSRM talks to an OSRM-compatible routing instance. Table answers the
// all-pairs distance request; Route answers single-pair repair queries.
// Distances are returned in meters, as the provider ships them.
type OSRM struct {
	fetcher *fetch.Fetcher
	baseURL string
	profile string
}

func New(fetcher *fetch.Fetcher, baseURL string) *OSRM {
	return &OSRM{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance *float64 `json:"distance"`
		Duration float64  `json:"duration"`
	} `json:"routes"`
}

// coordPath renders coords as the ;-joined lon,lat pairs OSRM expects.
func coordPath(coords []domain.Coordinates) string {
	pairs := make([]string, len(coords))
	for i, c := range coords {
		pairs[i] = fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
	}
	return strings.Join(pairs, ";")
}

// Table fetches the full pairwise distance matrix in one call.
// A nil cell means the provider found no route for that pair.
func (o *OSRM) Table(ctx context.Context, coords []domain.Coordinates) ([][]*float64, error) {
	endpoint := fmt.Sprintf("%s/table/v1/%s/%s", o.baseURL, o.profile, coordPath(coords))

	params := url.Values{}
	params.Set("annotations", "distance")

	resp, err := o.fetcher.Get(ctx, endpoint, params, nil, fetch.Options{
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		BaseBackoff: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("osrm table: %w", err)
	}
	defer resp.Body.Close()

	var decoded tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("osrm table: decode response: %w", err)
	}

	if decoded.Distances == nil {
		return nil, fmt.Errorf(
			"osrm table: no distances in response (code=%s message=%s)",
			decoded.Code, decoded.Message,
		)
	}

	if len(decoded.Distances) != len(coords) {
		return nil, fmt.Errorf(
			"osrm table: got %d rows, want %d",
			len(decoded.Distances), len(coords),
		)
	}
	for i, row := range decoded.Distances {
		if len(row) != len(coords) {
			return nil, fmt.Errorf("osrm table: row %d has %d cells, want %d", i, len(row), len(coords))
		}
	}

	return decoded.Distances, nil
}

// Route fetches the travel distance in meters for a single pair.
func (o *OSRM) Route(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s",
		o.baseURL, o.profile, coordPath([]domain.Coordinates{from, to}),
	)

	params := url.Values{}
	params.Set("overview", "false")

	resp, err := o.fetcher.Get(ctx, endpoint, params, nil, fetch.Options{
		Timeout:     15 * time.Second,
		MaxRetries:  4,
		BaseBackoff: 500 * time.Millisecond,
	})
	if err != nil {
		return 0, fmt.Errorf("osrm route: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return 0, fmt.Errorf("osrm route: no route (code=%s)", decoded.Code)
	}
	if decoded.Routes[0].Distance == nil {
		return 0, fmt.Errorf("osrm route: route has no distance")
	}

	return *decoded.Routes[0].Distance, nil
}
