package services

import (
	"sort"
	"strings"
	"time"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	"github.com/benjamincrom/hikewithben-search/pkg/geo"
)

// sortedSmall returns the records ordered by id.
func sortedSmall(small map[string]*entities.SmallRecArea) []*entities.SmallRecArea {
	out := make([]*entities.SmallRecArea, 0, len(small))
	for _, rec := range small {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// filterByName keeps records whose name contains substr (case-sensitive).
func filterByName(records []*entities.SmallRecArea, substr string) []*entities.SmallRecArea {
	if substr == "" {
		return records
	}
	out := make([]*entities.SmallRecArea, 0, len(records))
	for _, rec := range records {
		if strings.Contains(rec.Name, substr) {
			out = append(out, rec)
		}
	}
	return out
}

// filterByDistance keeps records within [minDistance, maxDistance] miles of
// home. Records without a coordinate are dropped. Survivors are copies with
// DistanceFromHome set to the truncated distance.
func filterByDistance(records []*entities.SmallRecArea, home entities.Coordinate, minDistance, maxDistance int) []*entities.SmallRecArea {
	located := make([]*entities.SmallRecArea, 0, len(records))
	coords := make([]entities.Coordinate, 0, len(records))
	for _, rec := range records {
		if c, ok := rec.Coordinate(); ok {
			located = append(located, rec)
			coords = append(coords, c)
		}
	}

	distances := geo.Distances(home, coords)

	out := make([]*entities.SmallRecArea, 0, len(located))
	for i, rec := range located {
		d := distances[i]
		if d < float64(minDistance) || d > float64(maxDistance) {
			continue
		}
		cp := *rec
		cp.DistanceFromHome = int(d)
		out = append(out, &cp)
	}
	return out
}

// filterWeather keeps the days inside the query's date and temperature bounds.
// A nil or empty mapping is returned as is. Days with an unreadable date or a
// missing temperature are dropped.
func filterWeather(weather entities.WeatherDict, query entities.SearchQuery) entities.WeatherDict {
	if len(weather) == 0 {
		return weather
	}
	out := make(entities.WeatherDict, len(weather))
	for dateStr, day := range weather {
		date, err := time.Parse(entities.DateLayout, dateStr)
		if err != nil {
			continue
		}
		if date.Before(query.StartDate) || date.After(query.FinishDate) {
			continue
		}
		minTemp, okMin := day.MinTemp()
		maxTemp, okMax := day.MaxTemp()
		if !okMin || !okMax {
			continue
		}
		if minTemp >= float64(query.MinTemp) && maxTemp <= float64(query.MaxTemp) {
			out[dateStr] = day
		}
	}
	return out
}

// filterWeekends keeps Friday, Saturday and Sunday days only.
func filterWeekends(weather entities.WeatherDict) entities.WeatherDict {
	if weather == nil {
		return nil
	}
	out := make(entities.WeatherDict, len(weather))
	for dateStr, day := range weather {
		date, err := time.Parse(entities.DateLayout, dateStr)
		if err != nil {
			continue
		}
		switch date.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			out[dateStr] = day
		}
	}
	return out
}

// applyReservations rebuilds the record's facilities with reservation dates
// pruned to the weather mapping and TOTAL set on each remaining date. It
// reports whether any facility had reservation data before pruning.
func applyReservations(rec *entities.RecArea) bool {
	if rec.Facilities == nil {
		return false
	}

	reservable := false
	facilities := make([]*entities.Facility, 0, len(rec.Facilities))
	for _, facility := range rec.Facilities {
		if facility == nil {
			continue
		}
		cp := *facility
		facilities = append(facilities, &cp)
		if len(facility.Reservation) == 0 {
			continue
		}
		reservable = true

		reservation := make(entities.ReservationDict, len(facility.Reservation))
		for dateStr, day := range facility.Reservation {
			if rec.Weather != nil {
				if _, ok := rec.Weather[dateStr]; !ok {
					continue
				}
			}
			totaled := make(entities.ReservationDay, len(day)+1)
			for k, v := range day {
				totaled[k] = v
			}
			totaled[entities.ReservationTotalKey] = day.Total()
			reservation[dateStr] = totaled
		}
		cp.Reservation = reservation
	}
	rec.Facilities = facilities
	return reservable
}

// sortResults orders records by distance then id, and each record's
// facilities by name.
func sortResults(records []*entities.RecArea) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DistanceFromHome != records[j].DistanceFromHome {
			return records[i].DistanceFromHome < records[j].DistanceFromHome
		}
		return records[i].ID < records[j].ID
	})
	for _, rec := range records {
		sort.SliceStable(rec.Facilities, func(i, j int) bool {
			return rec.Facilities[i].Name < rec.Facilities[j].Name
		})
	}
}
