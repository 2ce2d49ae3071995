// Package geo computes great-circle distances between recareas and a home
// location.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMiles is the mean Earth radius used for all distances.
const EarthRadiusMiles = 3959.0

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LatLng converts c to an s2 LatLng.
func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

// Valid reports whether c lies within [-90, 90] x [-180, 180].
func Valid(c Coordinate) bool {
	return c.LatLng().IsValid()
}

// Distance returns the haversine distance in miles between origin and candidate.
func Distance(origin, candidate Coordinate) float64 {
	o := origin.LatLng()
	return haversine(o.Lat.Radians(), o.Lng.Radians(), candidate)
}

// Distances returns the distance in miles from origin to every candidate.
// The result is index-aligned with candidates.
func Distances(origin Coordinate, candidates []Coordinate) []float64 {
	out := make([]float64, len(candidates))
	if len(candidates) == 0 {
		return out
	}

	o := origin.LatLng()
	lat0, lon0 := o.Lat.Radians(), o.Lng.Radians()
	for i, c := range candidates {
		out[i] = haversine(lat0, lon0, c)
	}
	return out
}

func haversine(lat0, lon0 float64, c Coordinate) float64 {
	p := c.LatLng()
	lat, lon := p.Lat.Radians(), p.Lng.Radians()

	sinLat := math.Sin((lat - lat0) / 2)
	sinLon := math.Sin((lon - lon0) / 2)
	a := sinLat*sinLat + math.Cos(lat0)*math.Cos(lat)*sinLon*sinLon

	// floating error can push sqrt(a) just past 1 for antipodal points
	return 2 * math.Asin(math.Min(math.Sqrt(a), 1.0)) * EarthRadiusMiles
}
