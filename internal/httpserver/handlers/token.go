package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// RefreshToken drops the cached provider token; the next provider call
// exchanges credentials again.
func RefreshToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Tokens.ClearToken()
		d.Logger.Info("provider token cleared via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}
