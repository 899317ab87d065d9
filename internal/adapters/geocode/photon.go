package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"tour-route-service/internal/adapters/fetch"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

// Photon is the primary, autocomplete-oriented geocoder. Results are
// biased to a configured bounding box (lon_min,lat_min,lon_max,lat_max)
// so loosely specified names still resolve in-region.
type Photon struct {
	fetcher *fetch.Fetcher
	pacer   *fetch.Pacer
	baseURL string
	bbox    string
}

func NewPhoton(fetcher *fetch.Fetcher, pacer *fetch.Pacer, baseURL, bbox string) *Photon {
	return &Photon{
		fetcher: fetcher,
		pacer:   pacer,
		baseURL: baseURL,
		bbox:    bbox,
	}
}

func (p *Photon) Name() string { return "photon" }

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves query to the first feature's point geometry.
func (p *Photon) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx); err != nil {
			return domain.Coordinates{}, err
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("lang", "en")
	if p.bbox != "" {
		params.Set("bbox", p.bbox)
	}

	resp, err := p.fetcher.Get(ctx, p.baseURL, params, nil, fetch.Options{
		Timeout:     8 * time.Second,
		MaxRetries:  2,
		BaseBackoff: 200 * time.Millisecond,
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("photon geocode %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("photon geocode %q: decode response: %w", query, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, ports.ErrNoResults
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinates{}, fmt.Errorf("photon geocode %q: invalid coordinate format", query)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
