package domain

import "math"

// Earth radius used for great-circle estimates, in kilometers.
const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Valid reports whether the coordinates lie inside the usual
// lat/lon ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// HaversineKm returns the great-circle distance to other in kilometers.
// It ignores roads and terrain; the pipeline uses it only as the
// last-resort estimate when no routing data is available.
func (c Coordinates) HaversineKm(other Coordinates) float64 {
	phi1 := c.Lat * math.Pi / 180
	phi2 := other.Lat * math.Pi / 180
	dPhi := (other.Lat - c.Lat) * math.Pi / 180
	dLambda := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
