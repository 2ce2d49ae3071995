package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecArea_UnmarshalKeepsUnknownFields(t *testing.T) {
	payload := `{
		"RecAreaID": 1071,
		"RecAreaName": "Amicalola Falls",
		"RecAreaLatitude": "34.5573",
		"RecAreaLongitude": -84.2488,
		"RecAreaPhone": "706-265-4703",
		"RecAreaWeatherDict": {"2024-06-01": {"min_temp": 60, "max_temp": 75, "precip": 0.2}},
		"facilities": [
			{"FacilityName": "Lodge", "FacilityID": "9", "reservation": {"2024-06-01": {"STANDARD": 2, "TENT": 1}}}
		]
	}`

	var r RecArea
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, "1071", r.ID)
	assert.Equal(t, "Amicalola Falls", r.Name)
	c, ok := r.Coordinate()
	require.True(t, ok)
	assert.Equal(t, 34.5573, c.Latitude)
	assert.Equal(t, -84.2488, c.Longitude)
	require.Len(t, r.Facilities, 1)
	assert.Equal(t, 3.0, r.Facilities[0].Reservation["2024-06-01"].Total())

	r.DistanceFromHome = 42
	out, err := json.Marshal(&r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "706-265-4703", decoded["RecAreaPhone"])
	assert.Equal(t, 1071.0, decoded["RecAreaID"])
	assert.Equal(t, 42.0, decoded["distance_from_home"])
	facility := decoded["facilities"].([]any)[0].(map[string]any)
	assert.Equal(t, "9", facility["FacilityID"])
}

func TestRecArea_WeatherPresenceDistinguishesEmpty(t *testing.T) {
	var absent, empty RecArea
	require.NoError(t, json.Unmarshal([]byte(`{"RecAreaID": "1"}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"RecAreaID": "2", "RecAreaWeatherDict": {}}`), &empty))

	assert.Nil(t, absent.Weather)
	assert.NotNil(t, empty.Weather)
	assert.Empty(t, empty.Weather)
}

func TestSmallRecArea_MissingOrZeroCoordinates(t *testing.T) {
	cases := map[string]string{
		"missing": `{"RecAreaID": "1", "RecAreaName": "A"}`,
		"empty":   `{"RecAreaID": "1", "RecAreaName": "A", "RecAreaLatitude": "", "RecAreaLongitude": ""}`,
		"zero":    `{"RecAreaID": "1", "RecAreaName": "A", "RecAreaLatitude": 0, "RecAreaLongitude": -84.1}`,
		"null":    `{"RecAreaID": "1", "RecAreaName": "A", "RecAreaLatitude": null, "RecAreaLongitude": -84.1}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var s SmallRecArea
			require.NoError(t, json.Unmarshal([]byte(payload), &s))
			_, ok := s.Coordinate()
			assert.False(t, ok)
		})
	}
}

func TestReservationDay_TotalIgnoresPreviousTotal(t *testing.T) {
	day := ReservationDay{"STANDARD": 4, "GROUP": 1, ReservationTotalKey: 99}
	assert.Equal(t, 5.0, day.Total())
}
