package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

// TravelLookup resolves addresses and travel metrics
type TravelLookup interface {
	Geocode(ctx context.Context, address string) (*entities.Coordinate, error)
	TravelBetween(ctx context.Context, origin, destination entities.Coordinate) (*entities.TravelMetrics, error)
}

// TravelHandler handles geocode and travel endpoints.
type TravelHandler struct {
	travel TravelLookup
}

// NewTravelHandler creates a new travel handler.
func NewTravelHandler(travel TravelLookup) *TravelHandler {
	return &TravelHandler{travel: travel}
}

// Geocode handles GET /api/geocode?address=...
func (h *TravelHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	coords, err := h.travel.Geocode(r.Context(), address)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if coords == nil {
		respondWithError(w, http.StatusNotFound, "address could not be resolved")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"address": address,
		"lat":     coords.Latitude,
		"lon":     coords.Longitude,
	})
}

// Travel handles GET /api/travel?origin=lat,lon&destination=lat,lon
func (h *TravelHandler) Travel(w http.ResponseWriter, r *http.Request) {
	origin, err := parseCoordinate(r.URL.Query().Get("origin"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid origin parameter: "+err.Error())
		return
	}
	destination, err := parseCoordinate(r.URL.Query().Get("destination"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid destination parameter: "+err.Error())
		return
	}

	metrics, err := h.travel.TravelBetween(r.Context(), origin, destination)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if metrics == nil {
		respondWithError(w, http.StatusBadGateway, "travel service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// parseCoordinate reads a "lat,lon" pair
func parseCoordinate(value string) (entities.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(strings.TrimSpace(value), ",")
	if !ok {
		return entities.Coordinate{}, fmt.Errorf("expected lat,lon")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid longitude %q", lonStr)
	}
	return entities.Coordinate{Latitude: lat, Longitude: lon}, nil
}
