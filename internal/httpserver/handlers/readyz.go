package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz reports ready once the carrier directory (when configured) has
// been loaded. The search cache is optional and never blocks readiness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.CarrierFile != "" && d.Carriers != nil && d.Carriers.LoadedAt().IsZero() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Reason: "carrier directory not loaded"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
