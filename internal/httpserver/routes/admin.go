package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

// adminGuard returns the middlewares of the admin endpoints. ok is false
// when neither an IP nor a Host allow-list is configured: an unguarded
// admin surface is never mounted.
func adminGuard(d deps.Deps) (guard []Middleware, ok bool) {
	if len(d.AllowedCIDRS) == 0 && len(d.AllowedHosts) == 0 {
		return nil, false
	}
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}, true
}

func registerAdmin(r chi.Router, d deps.Deps) {
	guard, ok := adminGuard(d)
	if !ok {
		d.Logger.Warn("FLIGHTSCOPE_ALLOWED_CIDRS and FLIGHTSCOPE_ALLOWED_HOSTS are empty, admin endpoints disabled")
		return
	}
	r.With(guard...).Post("/reload", handlers.Reload(d))
}

// registerAdminAPI mounts the admin endpoints that live under /api.
func registerAdminAPI(r chi.Router, d deps.Deps) {
	guard, ok := adminGuard(d)
	if !ok {
		return
	}
	admin := r.With(guard...)
	admin.Post("/token/refresh", handlers.RefreshToken(d))
	admin.Delete("/cache", handlers.FlushCache(d))
	admin.Delete("/cache/search", handlers.InvalidateSearch(d))
}
