package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/services"
)

type RouteHandler struct {
	Planner *services.Planner
}

// Calculate resolves the submitted place names, builds the distance
// matrix, and returns the optimized visiting order.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	result, err := h.Planner.ComputeRoute(r.Context(), req.Locations)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	coords := make([]dto.CoordinateResponse, 0, len(result.Coordinates))
	for _, c := range result.Coordinates {
		coords = append(coords, dto.CoordinateResponse{Lat: c.Lat, Lon: c.Lon})
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		Locations:       result.Locations,
		Coordinates:     coords,
		Path:            result.Path,
		OptimalPath:     result.PathNames,
		TotalDistanceKm: result.TotalDistanceKm,
		DistanceMatrix:  result.Matrix,
		Algorithm:       result.Algorithm,
	})
}

// writeRouteError maps pipeline failures onto HTTP statuses. Bad input
// and unknown places are the caller's problem; provider trouble is not.
func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		writeError(w, r, http.StatusBadRequest, invalid.Reason)
		return
	}

	var geocode *domain.GeocodeError
	if errors.As(err, &geocode) {
		switch geocode.Kind {
		case domain.GeocodeNotFound:
			writeError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("could not find location: %s", geocode.Place.Raw))
		default:
			log.Printf("geocoding providers unavailable: %v", err)
			writeError(w, r, http.StatusBadGateway, "geocoding service unavailable")
		}
		return
	}

	log.Printf("calculate route failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
