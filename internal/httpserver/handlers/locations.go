package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
)

type locationsResponse struct {
	Keyword string                  `json:"keyword"`
	Results []domain.LocationResult `json:"results"`
}

// Locations serves the airport autocomplete. Provider failures surface as
// an empty list, never as an error status.
func Locations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := r.URL.Query().Get("keyword")
		writeJSON(w, http.StatusOK, locationsResponse{
			Keyword: keyword,
			Results: d.Locations.Search(r.Context(), keyword),
		})
	}
}
