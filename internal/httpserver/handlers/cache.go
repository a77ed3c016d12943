package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

type flushResponse struct {
	Deleted int `json:"deleted"`
}

// FlushCache drops every cached search and location lookup.
func FlushCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Cache == nil {
			writeError(w, http.StatusServiceUnavailable, "search cache is not configured")
			return
		}

		n, err := d.Cache.FlushCache(r.Context())
		if err != nil {
			d.Logger.Error("cache flush failed", logger.Int("deleted", n), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "cache flush failed")
			return
		}
		d.Logger.Info("cache flushed via endpoint",
			logger.Int("deleted", n),
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, flushResponse{Deleted: n})
	}
}

// InvalidateSearch drops the cached result of one search, identified by
// the same query parameters a search body carries.
func InvalidateSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Cache == nil {
			writeError(w, http.StatusServiceUnavailable, "search cache is not configured")
			return
		}

		q := r.URL.Query()
		params := domain.SearchParams{
			Origin:        q.Get("origin"),
			Destination:   q.Get("destination"),
			DepartureDate: q.Get("departureDate"),
			ReturnDate:    q.Get("returnDate"),
		}
		if raw := q.Get("adults"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "adults must be an integer")
				return
			}
			params.Adults = n
		}

		var ve *domain.ValidationError
		if err := params.Validate(); errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.Message(err), Field: ve.Field})
			return
		}

		if err := d.Cache.InvalidateSearch(r.Context(), params.Normalize()); err != nil {
			d.Logger.Error("search invalidation failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "search invalidation failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
