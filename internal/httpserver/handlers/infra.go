package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
	Sessions   map[string]int             `json:"sessions"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"provider_token": checkToken(d),
			"cache":          checkCache(r.Context(), d),
			"carriers":       checkCarriers(d),
			"transformer":    {OK: true, Mode: d.PricePolicy},
		}

		sessions := map[string]int{"total": 0}
		if d.Sessions != nil {
			sessions["total"] = d.Sessions.Count()
			for status, n := range d.Sessions.CountByStatus() {
				sessions[string(status)] = n
			}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
			Sessions:   sessions,
		})
	}
}

// determineMode is "optimal" when every optional component works and
// "degraded" otherwise. Searches work in both.
func determineMode(components map[string]componentStatus) string {
	for _, c := range components {
		if !c.OK && c.Mode != "disabled" {
			return "degraded"
		}
	}
	return "optimal"
}

func checkToken(d deps.Deps) componentStatus {
	if d.Tokens == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	if expiry, ok := d.Tokens.Expiry(); ok {
		return componentStatus{OK: true, Mode: "cached", Detail: "expires " + expiry.UTC().Format(time.RFC3339)}
	}
	// No token yet is normal: the next search exchanges credentials.
	return componentStatus{OK: true, Mode: "empty"}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.Cache == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Cache.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "redis"}
}

func checkCarriers(d deps.Deps) componentStatus {
	if d.CarrierFile == "" || d.Carriers == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}
	loaded := d.Carriers.LoadedAt()
	if loaded.IsZero() {
		return componentStatus{OK: false, Mode: "file", Error: "never loaded"}
	}
	return componentStatus{
		OK:     d.Carriers.Len() > 0,
		Mode:   "file",
		Detail: loaded.UTC().Format(time.RFC3339),
	}
}
