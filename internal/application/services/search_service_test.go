package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benjamincrom/hikewithben-search/internal/application/services"
	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
)

type mockRecAreaRepository struct {
	mock.Mock
}

func (m *mockRecAreaRepository) ListSmall(ctx context.Context) (map[string]*entities.SmallRecArea, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[string]*entities.SmallRecArea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRecAreaRepository) GetFull(ctx context.Context, id string) (*entities.RecArea, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.RecArea), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTravelProvider struct {
	mock.Mock
}

func (m *mockTravelProvider) Geocode(ctx context.Context, address string) (*entities.Coordinate, error) {
	args := m.Called(ctx, address)
	if v := args.Get(0); v != nil {
		return v.(*entities.Coordinate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTravelProvider) TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error) {
	args := m.Called(ctx, origin, destination)
	if v := args.Get(0); v != nil {
		return v.(*entities.TravelMetrics), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	atlantaHome = &entities.Coordinate{Latitude: 33.749, Longitude: -84.388}
	fixedNow    = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
)

func fp(v float64) *float64 { return &v }

func recArea(t *testing.T, payload string) *entities.RecArea {
	t.Helper()
	var rec entities.RecArea
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	return &rec
}

func newService(repo *mockRecAreaRepository, travel *mockTravelProvider) *services.SearchService {
	return services.NewSearchServiceWithOptions(repo, travel, services.SearchServiceOptions{
		Now: func() time.Time { return fixedNow },
	})
}

func TestSearchService_DistanceScenario(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, "Atlanta, GA").Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"100": {ID: "100", Name: "Thirty Mile Park", Latitude: fp(34.19), Longitude: fp(-84.388)},
		"200": {ID: "200", Name: "Eighty Mile Park", Latitude: fp(34.91), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "100").Return(recArea(t, `{"RecAreaID": 100, "RecAreaName": "Thirty Mile Park"}`), nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
		"min_distance":     "0",
		"max_distance":     "50",
	})

	require.NoError(t, err)
	require.Len(t, result.RecAreas, 1)
	assert.Equal(t, "100", result.RecAreas[0].ID)
	assert.Equal(t, 30, result.RecAreas[0].DistanceFromHome)
	assert.Equal(t, atlantaHome, result.Home)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetFull", mock.Anything, "200")
}

func TestSearchService_TemperaturePrunesReservationDates(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, "Atlanta, GA").Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"1": {ID: "1", Name: "Lake", Latitude: fp(34.19), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "1").Return(recArea(t, `{
		"RecAreaID": 1,
		"RecAreaName": "Lake",
		"RecAreaWeatherDict": {"2024-06-01": {"min_temp": 60, "max_temp": 75}},
		"facilities": [{"FacilityName": "Loop A", "reservation": {"2024-06-01": {"tent": 3}}}]
	}`), nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
		"min_temp":         "65",
	})

	require.NoError(t, err)
	require.Len(t, result.RecAreas, 1)
	rec := result.RecAreas[0]
	assert.Empty(t, rec.Weather)
	assert.NotContains(t, rec.Facilities[0].Reservation, "2024-06-01")
}

func TestSearchService_ShowOnlyAvailable(t *testing.T) {
	small := map[string]*entities.SmallRecArea{
		"1": {ID: "1", Name: "Reservable", Latitude: fp(34.0), Longitude: fp(-84.388)},
		"2": {ID: "2", Name: "First Come", Latitude: fp(34.19), Longitude: fp(-84.388)},
	}

	for _, tc := range []struct {
		flag string
		want []string
	}{
		{flag: "", want: []string{"1", "2"}},
		{flag: "on", want: []string{"1"}},
	} {
		t.Run("show_only_available="+tc.flag, func(t *testing.T) {
			repo := new(mockRecAreaRepository)
			travel := new(mockTravelProvider)
			travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
			repo.On("ListSmall", mock.Anything).Return(small, nil)
			repo.On("GetFull", mock.Anything, "1").Return(recArea(t, `{
				"RecAreaID": 1,
				"facilities": [{"FacilityName": "Loop", "reservation": {"2024-06-07": {"tent": 1}}}]
			}`), nil)
			repo.On("GetFull", mock.Anything, "2").Return(recArea(t, `{
				"RecAreaID": 2,
				"facilities": [{"FacilityName": "Walk-in"}]
			}`), nil)

			result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
				"home_address_str":    "Atlanta, GA",
				"show_only_available": tc.flag,
			})

			require.NoError(t, err)
			ids := []string{}
			for _, rec := range result.RecAreas {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestSearchService_SortsRecAreasAndFacilities(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"far":  {ID: "far", Name: "Far", Latitude: fp(34.5), Longitude: fp(-84.388)},
		"near": {ID: "near", Name: "Near", Latitude: fp(34.0), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "far").Return(recArea(t, `{"RecAreaID": "far"}`), nil)
	repo.On("GetFull", mock.Anything, "near").Return(recArea(t, `{
		"RecAreaID": "near",
		"facilities": [{"FacilityName": "Zeta"}, {"FacilityName": "Alpha"}]
	}`), nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
	})

	require.NoError(t, err)
	require.Len(t, result.RecAreas, 2)
	assert.Equal(t, "near", result.RecAreas[0].ID)
	assert.Equal(t, 17, result.RecAreas[0].DistanceFromHome)
	assert.Equal(t, "far", result.RecAreas[1].ID)
	assert.Equal(t, 51, result.RecAreas[1].DistanceFromHome)
	assert.Equal(t, "Alpha", result.RecAreas[0].Facilities[0].Name)
	assert.Equal(t, "Zeta", result.RecAreas[0].Facilities[1].Name)
}

func TestSearchService_WeekendsOnly(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"1": {ID: "1", Name: "Lake", Latitude: fp(34.0), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "1").Return(recArea(t, `{
		"RecAreaID": 1,
		"RecAreaWeatherDict": {
			"2024-06-06": {"min_temp": 60, "max_temp": 80},
			"2024-06-07": {"min_temp": 60, "max_temp": 80},
			"2024-06-09": {"min_temp": 60, "max_temp": 80}
		},
		"facilities": [{"FacilityName": "Loop", "reservation": {
			"2024-06-06": {"tent": 1},
			"2024-06-07": {"tent": 2}
		}}]
	}`), nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
		"weekends_only":    "true",
	})

	require.NoError(t, err)
	require.Len(t, result.RecAreas, 1)
	rec := result.RecAreas[0]
	assert.Len(t, rec.Weather, 2)
	assert.NotContains(t, rec.Weather, "2024-06-06")
	res := rec.Facilities[0].Reservation
	assert.Len(t, res, 1)
	assert.Equal(t, 2.0, res["2024-06-07"][entities.ReservationTotalKey])
}

func TestSearchService_NameFilter(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"1": {ID: "1", Name: "Cloudland Canyon", Latitude: fp(34.0), Longitude: fp(-84.388)},
		"2": {ID: "2", Name: "Vogel", Latitude: fp(34.0), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "1").Return(recArea(t, `{"RecAreaID": 1, "RecAreaName": "Cloudland Canyon"}`), nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str":  "Atlanta, GA",
		"name_contains_str": "Canyon",
	})

	require.NoError(t, err)
	require.Len(t, result.RecAreas, 1)
	assert.Equal(t, "Cloudland Canyon", result.RecAreas[0].Name)
	repo.AssertNumberOfCalls(t, "GetFull", 1)
}

func TestSearchService_UnresolvedHomeReturnsEmpty(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)
	travel.On("Geocode", mock.Anything, "Nowhere").Return(nil, nil)

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Nowhere",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Home)
	assert.NotNil(t, result.RecAreas)
	assert.Empty(t, result.RecAreas)
	repo.AssertNotCalled(t, "ListSmall", mock.Anything)
}

func TestSearchService_MissingFullRecordIsIntegrityError(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(map[string]*entities.SmallRecArea{
		"1": {ID: "1", Name: "Present", Latitude: fp(34.0), Longitude: fp(-84.388)},
		"2": {ID: "2", Name: "Orphan", Latitude: fp(34.0), Longitude: fp(-84.388)},
	}, nil)
	repo.On("GetFull", mock.Anything, "1").Return(recArea(t, `{"RecAreaID": 1}`), nil)
	repo.On("GetFull", mock.Anything, "2").Return(nil, apperrors.NewNotFoundError("recarea 2 not found"))

	result, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIntegrity))
}

func TestSearchService_StoreFailurePropagates(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	travel.On("Geocode", mock.Anything, mock.Anything).Return(atlantaHome, nil)
	repo.On("ListSmall", mock.Anything).Return(nil, apperrors.NewInternalError("failed to list", errors.New("connection refused")))

	_, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestSearchService_ValidationErrorSkipsPipeline(t *testing.T) {
	repo := new(mockRecAreaRepository)
	travel := new(mockTravelProvider)

	_, err := newService(repo, travel).SearchParams(context.Background(), map[string]string{
		"home_address_str": "Atlanta, GA",
		"max_distance":     "far",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	travel.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestTravelService(t *testing.T) {
	travel := new(mockTravelProvider)
	service := services.NewTravelService(travel)
	origin := entities.Coordinate{Latitude: 33.749, Longitude: -84.388}
	destination := entities.Coordinate{Latitude: 35.5951, Longitude: -82.5515}

	travel.On("Geocode", mock.Anything, "Atlanta, GA").Return(atlantaHome, nil)
	travel.On("TravelBetween", mock.Anything, origin, destination).Return(&entities.TravelMetrics{DurationHours: fp(3.5)}, nil)

	coord, err := service.Geocode(context.Background(), " Atlanta, GA ")
	require.NoError(t, err)
	assert.Equal(t, atlantaHome, coord)

	_, err = service.Geocode(context.Background(), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	metrics, err := service.TravelBetween(context.Background(), origin, destination)
	require.NoError(t, err)
	assert.Equal(t, 3.5, *metrics.DurationHours)
	assert.Nil(t, metrics.DistanceMiles)

	_, err = service.TravelBetween(context.Background(), entities.Coordinate{Latitude: 91}, destination)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
