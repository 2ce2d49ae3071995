package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/benjamincrom/hikewithben-search/pkg/geo"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate = geo.Coordinate

// DateLayout is the layout of every date key in weather and reservation maps.
const DateLayout = "2006-01-02"

// ReservationTotalKey is the derived per-date sum written onto reservation entries.
const ReservationTotalKey = "TOTAL"

const (
	keyRecAreaID        = "RecAreaID"
	keyRecAreaName      = "RecAreaName"
	keyRecAreaLatitude  = "RecAreaLatitude"
	keyRecAreaLongitude = "RecAreaLongitude"
	keyWeather          = "RecAreaWeatherDict"
	keyFacilities       = "facilities"
	keyDistance         = "distance_from_home"
	keyFacilityName     = "FacilityName"
	keyReservation      = "reservation"
)

// WeatherDay holds the numeric weather readings for one date.
type WeatherDay map[string]float64

// MinTemp returns the day's minimum temperature, if recorded.
func (d WeatherDay) MinTemp() (float64, bool) {
	v, ok := d["min_temp"]
	return v, ok
}

// MaxTemp returns the day's maximum temperature, if recorded.
func (d WeatherDay) MaxTemp() (float64, bool) {
	v, ok := d["max_temp"]
	return v, ok
}

// WeatherDict maps YYYY-MM-DD dates to weather readings. A nil WeatherDict
// means the recarea has no weather data at all.
type WeatherDict map[string]WeatherDay

// ReservationDay maps an availability category to its count for one date.
type ReservationDay map[string]float64

// Total sums every category count, ignoring any previously derived total.
func (d ReservationDay) Total() float64 {
	var sum float64
	for k, v := range d {
		if k == ReservationTotalKey {
			continue
		}
		sum += v
	}
	return sum
}

// ReservationDict maps YYYY-MM-DD dates to reservation availability.
type ReservationDict map[string]ReservationDay

// SmallRecArea is the summary projection of a recarea used for pre-filtering.
type SmallRecArea struct {
	ID        string
	Name      string
	Latitude  *float64
	Longitude *float64

	// DistanceFromHome is set by the distance filter.
	DistanceFromHome int
}

// Coordinate returns the record's location when both components are present.
func (s *SmallRecArea) Coordinate() (Coordinate, bool) {
	return coordinateOf(s.Latitude, s.Longitude)
}

// UnmarshalJSON decodes the cached summary JSON.
func (s *SmallRecArea) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var err error
	if s.ID, err = decodeID(raw[keyRecAreaID]); err != nil {
		return fmt.Errorf("RecAreaID: %w", err)
	}
	if s.Name, err = decodeString(raw[keyRecAreaName]); err != nil {
		return fmt.Errorf("RecAreaName: %w", err)
	}
	s.Latitude = decodeCoordinate(raw[keyRecAreaLatitude])
	s.Longitude = decodeCoordinate(raw[keyRecAreaLongitude])
	return nil
}

// RecArea is a full recreation area record as cached. Fields the search does
// not interpret are carried through untouched.
type RecArea struct {
	ID         string
	Name       string
	Latitude   *float64
	Longitude  *float64
	Weather    WeatherDict
	Facilities []*Facility

	DistanceFromHome int

	raw map[string]json.RawMessage
}

// Coordinate returns the record's location when both components are present.
func (r *RecArea) Coordinate() (Coordinate, bool) {
	return coordinateOf(r.Latitude, r.Longitude)
}

// UnmarshalJSON decodes the cached recarea JSON.
func (r *RecArea) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if r.ID, err = decodeID(raw[keyRecAreaID]); err != nil {
		return fmt.Errorf("RecAreaID: %w", err)
	}
	if r.Name, err = decodeString(raw[keyRecAreaName]); err != nil {
		return fmt.Errorf("RecAreaName: %w", err)
	}
	r.Latitude = decodeCoordinate(raw[keyRecAreaLatitude])
	r.Longitude = decodeCoordinate(raw[keyRecAreaLongitude])

	r.Weather = nil
	if v, ok := raw[keyWeather]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &r.Weather); err != nil {
			return fmt.Errorf("RecAreaWeatherDict: %w", err)
		}
		if r.Weather == nil {
			r.Weather = WeatherDict{}
		}
	}

	r.Facilities = nil
	if v, ok := raw[keyFacilities]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &r.Facilities); err != nil {
			return fmt.Errorf("facilities: %w", err)
		}
	}

	r.DistanceFromHome = 0
	if v, ok := raw[keyDistance]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &r.DistanceFromHome); err != nil {
			return fmt.Errorf("distance_from_home: %w", err)
		}
	}

	r.raw = raw
	return nil
}

// MarshalJSON encodes the record with its derived fields.
func (r *RecArea) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.raw)+4)
	for k, v := range r.raw {
		out[k] = v
	}
	if _, ok := r.raw[keyRecAreaID]; !ok {
		out[keyRecAreaID] = r.ID
	}
	if _, ok := r.raw[keyRecAreaName]; !ok {
		out[keyRecAreaName] = r.Name
	}
	if _, ok := r.raw[keyRecAreaLatitude]; !ok && r.Latitude != nil {
		out[keyRecAreaLatitude] = *r.Latitude
	}
	if _, ok := r.raw[keyRecAreaLongitude]; !ok && r.Longitude != nil {
		out[keyRecAreaLongitude] = *r.Longitude
	}

	delete(out, keyWeather)
	if r.Weather != nil {
		out[keyWeather] = r.Weather
	}
	delete(out, keyFacilities)
	if r.Facilities != nil {
		out[keyFacilities] = r.Facilities
	}
	out[keyDistance] = r.DistanceFromHome

	return json.Marshal(out)
}

// Facility is a bookable unit within a recarea.
type Facility struct {
	Name        string
	Reservation ReservationDict

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes a cached facility.
func (f *Facility) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if f.Name, err = decodeString(raw[keyFacilityName]); err != nil {
		return fmt.Errorf("FacilityName: %w", err)
	}

	f.Reservation = nil
	if v, ok := raw[keyReservation]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &f.Reservation); err != nil {
			return fmt.Errorf("reservation: %w", err)
		}
	}

	f.raw = raw
	return nil
}

// MarshalJSON encodes the facility with its current reservation map.
func (f *Facility) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.raw)+2)
	for k, v := range f.raw {
		out[k] = v
	}
	if _, ok := f.raw[keyFacilityName]; !ok {
		out[keyFacilityName] = f.Name
	}
	delete(out, keyReservation)
	if f.Reservation != nil {
		out[keyReservation] = f.Reservation
	}
	return json.Marshal(out)
}

func coordinateOf(lat, lon *float64) (Coordinate, bool) {
	if lat == nil || lon == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *lat, Longitude: *lon}, true
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeID accepts both numeric and string ids.
func decodeID(v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", nil
	}
	trimmed := bytes.TrimSpace(v)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func decodeString(v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// decodeCoordinate accepts numbers and numeric strings. Missing, empty and
// zero values all mean "unknown".
func decodeCoordinate(v json.RawMessage) *float64 {
	if isNull(v) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = parsed
	}
	if f == 0 {
		return nil
	}
	return &f
}
