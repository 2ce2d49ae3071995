package entities

import "time"

// SearchQuery is a validated recarea search with defaults applied.
type SearchQuery struct {
	HomeAddress       string
	NameContains      string
	MinDistance       int
	MaxDistance       int
	MinTemp           int
	MaxTemp           int
	StartDate         time.Time
	FinishDate        time.Time
	WeekendsOnly      bool
	ShowOnlyAvailable bool
}

// SearchResult is the ordered output of one search. Home is nil when the home
// address could not be resolved.
type SearchResult struct {
	Home     *Coordinate
	RecAreas []*RecArea
}

// TravelMetrics is the driving time and distance between two points. Either
// value is nil when the upstream response omits it.
type TravelMetrics struct {
	DurationHours *float64 `json:"duration_hours"`
	DistanceMiles *float64 `json:"distance_miles"`
}
