package dto

type RouteRequest struct {
	Locations []string `json:"locations"`
}

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteResponse struct {
	Locations       []string             `json:"locations"`
	Coordinates     []CoordinateResponse `json:"coordinates"`
	Path            []int                `json:"path"`
	OptimalPath     []string             `json:"optimal_path"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	DistanceMatrix  [][]float64          `json:"distance_matrix"`
	Algorithm       string               `json:"algorithm"`
}
