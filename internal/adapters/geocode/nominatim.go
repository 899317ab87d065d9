package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tour-route-service/internal/adapters/fetch"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

// userAgent identifies this service to Nominatim, whose usage policy
// requires a descriptive User-Agent.
const userAgent = "tour-route-service/1.0 (contact@example.com)"

// ratePenalty is how far the next request is pushed out after an
// observed rate-limit response.
const ratePenalty = 5 * time.Second

// Nominatim is the secondary, general-search geocoder. It has broader
// raw coverage than Photon but a much stricter rate-limit tolerance,
// so every call is paced and rate-limit statuses widen the spacing.
type Nominatim struct {
	fetcher      *fetch.Fetcher
	pacer        *fetch.Pacer
	baseURL      string
	countryCodes string
}

func NewNominatim(fetcher *fetch.Fetcher, pacer *fetch.Pacer, baseURL, countryCodes string) *Nominatim {
	return &Nominatim{
		fetcher:      fetcher,
		pacer:        pacer,
		baseURL:      baseURL,
		countryCodes: countryCodes,
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

// flexFloat parses a JSON value that may arrive as a number or as a
// quoted numeric string, which is how Nominatim ships lat/lon.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type nominatimResult struct {
	Lat flexFloat `json:"lat"`
	Lon flexFloat `json:"lon"`
}

// Geocode resolves query to the first search result.
func (n *Nominatim) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	if err := n.pacer.Wait(ctx); err != nil {
		return domain.Coordinates{}, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	header := http.Header{}
	header.Set("User-Agent", userAgent)

	resp, err := n.fetcher.Get(ctx, n.baseURL, params, header, fetch.Options{
		Timeout:     15 * time.Second,
		MaxRetries:  2,
		BaseBackoff: 2 * time.Second,
	})
	if err != nil {
		if rateLimited(err) {
			n.pacer.Penalize(ratePenalty)
		}
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: decode response: %w", query, err)
	}

	if len(results) == 0 {
		return domain.Coordinates{}, ports.ErrNoResults
	}

	return domain.Coordinates{
		Lat: float64(results[0].Lat),
		Lon: float64(results[0].Lon),
	}, nil
}

// rateLimited reports whether err carries a 403 or 429 status at any
// depth (403 is how the public Nominatim instance expresses throttling).
func rateLimited(err error) bool {
	var fe *domain.FetchError
	for errors.As(err, &fe) {
		if fe.Status == http.StatusForbidden || fe.Status == http.StatusTooManyRequests {
			return true
		}
		err = fe.Cause
		if err == nil {
			return false
		}
	}
	return false
}
