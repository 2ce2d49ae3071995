package handlers

import (
	"context"
	"net/http"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
)

// RecAreaSearcher runs a recarea search from raw query parameters
type RecAreaSearcher interface {
	SearchParams(ctx context.Context, params map[string]string) (*entities.SearchResult, error)
}

// SearchHandler handles recarea search requests
type SearchHandler struct {
	searcher RecAreaSearcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher RecAreaSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

type searchResponse struct {
	Home     *entities.Coordinate `json:"home"`
	RecAreas []*entities.RecArea  `json:"recareas"`
	Count    int                  `json:"count"`
}

// Search handles GET /api/search. A request without any parameters returns
// an empty result.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if len(query) == 0 {
		respondWithJSON(w, http.StatusOK, searchResponse{RecAreas: []*entities.RecArea{}})
		return
	}

	// Empty values are dropped so defaults apply
	params := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 && values[0] != "" {
			params[key] = values[0]
		}
	}

	result, err := h.searcher.SearchParams(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	recareas := result.RecAreas
	if recareas == nil {
		recareas = []*entities.RecArea{}
	}
	respondWithJSON(w, http.StatusOK, searchResponse{
		Home:     result.Home,
		RecAreas: recareas,
		Count:    len(recareas),
	})
}
