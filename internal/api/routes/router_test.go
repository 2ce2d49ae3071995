package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamincrom/hikewithben-search/internal/adapters/cache"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/providers/travel"
	"github.com/benjamincrom/hikewithben-search/internal/adapters/store"
	"github.com/benjamincrom/hikewithben-search/internal/api/handlers"
	"github.com/benjamincrom/hikewithben-search/internal/api/middleware"
	"github.com/benjamincrom/hikewithben-search/internal/application/services"
	redisclient "github.com/benjamincrom/hikewithben-search/internal/infrastructure/clients/redis"
	"github.com/benjamincrom/hikewithben-search/pkg/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := redisclient.NewClient(&config.RedisConfig{URL: "redis://" + srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cacheProvider := cache.NewRedisAdapter(client)
	travelProvider := travel.NewMockTravelProvider()
	searchService := services.NewSearchService(store.NewRecAreaStore(cacheProvider), travelProvider)

	router := NewRouter(
		handlers.NewSearchHandler(searchService),
		handlers.NewTravelHandler(services.NewTravelService(travelProvider)),
		middleware.NewCacheMiddleware(cacheProvider, 60),
		[]string{"*"},
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return server, srv
}

func TestRouter_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestRouter_SearchEndToEnd(t *testing.T) {
	server, redis := newTestServer(t)

	require.NoError(t, redis.Set(store.SmallKey("10"), `{"RecAreaID": 10, "RecAreaName": "Near Lake", "RecAreaLatitude": "34.19", "RecAreaLongitude": "-84.388"}`))
	require.NoError(t, redis.Set(store.SmallKey("20"), `{"RecAreaID": 20, "RecAreaName": "Far Ridge", "RecAreaLatitude": 34.91, "RecAreaLongitude": -84.388}`))
	require.NoError(t, redis.Set("10", `{
		"RecAreaID": 10,
		"RecAreaName": "Near Lake",
		"RecAreaWeatherDict": {"2024-06-07": {"min_temp": 62, "max_temp": 81}},
		"facilities": [
			{"FacilityName": "Zeta Loop", "reservation": {"2024-06-07": {"tent": 2, "rv": 1}, "2024-06-08": {"tent": 1}}},
			{"FacilityName": "Alpha Loop"}
		]
	}`))
	require.NoError(t, redis.Set("20", `{"RecAreaID": 20, "RecAreaName": "Far Ridge"}`))

	resp, err := http.Get(server.URL + "/api/search?home_address_str=Atlanta,+GA&max_distance=50&start_date=2024-01-01&finish_date=2024-12-31")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count    int `json:"count"`
		RecAreas []struct {
			RecAreaID        int `json:"RecAreaID"`
			DistanceFromHome int `json:"distance_from_home"`
			Facilities       []struct {
				FacilityName string                        `json:"FacilityName"`
				Reservation  map[string]map[string]float64 `json:"reservation"`
			} `json:"facilities"`
		} `json:"recareas"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Equal(t, 1, body.Count)
	rec := body.RecAreas[0]
	assert.Equal(t, 10, rec.RecAreaID)
	assert.Equal(t, 30, rec.DistanceFromHome)
	require.Len(t, rec.Facilities, 2)
	assert.Equal(t, "Alpha Loop", rec.Facilities[0].FacilityName)
	assert.Equal(t, "Zeta Loop", rec.Facilities[1].FacilityName)
	assert.Equal(t, map[string]map[string]float64{
		"2024-06-07": {"tent": 2, "rv": 1, "TOTAL": 3},
	}, rec.Facilities[1].Reservation)
}

func TestRouter_SearchIntegrityFault(t *testing.T) {
	server, redis := newTestServer(t)

	require.NoError(t, redis.Set(store.SmallKey("10"), `{"RecAreaID": 10, "RecAreaName": "Orphan", "RecAreaLatitude": 34.19, "RecAreaLongitude": -84.388}`))

	resp, err := http.Get(server.URL + "/api/search?home_address_str=Atlanta")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRouter_SearchValidationAndUnknownHome(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/search?home_address_str=Atlanta&min_temp=warm")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/search?home_address_str=Atlantis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body["home"])
	assert.Equal(t, float64(0), body["count"])
}

func TestRouter_GeocodeAndTravel(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/geocode?address=Asheville,+NC")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/travel?origin=33.749,-84.388&destination=35.5951,-82.5515")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var metrics map[string]float64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&metrics))
	assert.Greater(t, metrics["distance_miles"], 100.0)
	assert.Greater(t, metrics["duration_hours"], 2.0)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/search", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
