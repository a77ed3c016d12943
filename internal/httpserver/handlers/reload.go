package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// Reload triggers a manual reload of the carrier directory.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "carrier directory is not configured")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual carrier reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload triggered"})
		default:
			d.Logger.Warn("carrier reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "reload already in progress, please wait")
		}
	}
}
