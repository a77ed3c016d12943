package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

// registerAPI mounts the browse API. Endpoints that reach the flight
// provider or allocate a session share one per-IP rate limit.
func registerAPI(r chi.Router, d deps.Deps) {
	limited := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RatePerMin,
		TrustProxy:        d.TrustProxy,
	}, d.Logger)

	r.Route("/api", func(r chi.Router) {
		registerAdminAPI(r, d)

		r.With(limited).Get("/locations", handlers.Locations(d))

		r.With(limited).Post("/sessions", handlers.CreateSession(d))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetSession(d))
			r.Delete("/", handlers.DeleteSession(d))
			r.With(limited).Post("/search", handlers.SearchSession(d))
			r.Patch("/filters", handlers.PatchFilters(d))
			r.Delete("/filters", handlers.ResetFilters(d))
			r.Get("/flights", handlers.Flights(d))
			r.Get("/prices", handlers.Prices(d))
		})
	})
}
