package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/httpserver/deps"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
	"github.com/MrSnakeDoc/flightscope/internal/pipeline"
	"github.com/MrSnakeDoc/flightscope/internal/session"
)

type sessionCreatedResponse struct {
	ID string `json:"id"`
}

// snapshotResponse is the results page as seen by one session.
type snapshotResponse struct {
	ID            string               `json:"id"`
	Status        domain.SearchStatus  `json:"status"`
	Error         string               `json:"error,omitempty"`
	Search        domain.SearchParams  `json:"search"`
	Filters       domain.FlightFilters `json:"filters"`
	FiltersActive bool                 `json:"filtersActive"`
	TotalFlights  int                  `json:"totalFlights"`
	FilteredCount int                  `json:"filteredCount"`
	PriceData     []domain.PricePoint  `json:"priceData"`
	Airlines      []string             `json:"airlines"`
	PriceRange    domain.PriceRange    `json:"priceRange"`
	AveragePrice  int                  `json:"averagePrice"`
}

type searchResponse struct {
	Outcome pipeline.Outcome `json:"outcome"`
	Error   string           `json:"error,omitempty"`
	Field   string           `json:"field,omitempty"`
	snapshotResponse
}

// flightView adds the display forms of the timestamps to a flight.
type flightView struct {
	domain.Flight
	DepartureTime string `json:"departureTime"`
	DepartureDate string `json:"departureDate"`
	ArrivalTime   string `json:"arrivalTime"`
	ArrivalDate   string `json:"arrivalDate"`
}

type flightsResponse struct {
	Sort       domain.SortPolicy `json:"sort"`
	Items      []flightView      `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
}

type pricesResponse struct {
	PriceData []domain.PricePoint `json:"priceData"`
}

func snapshotOf(s *session.Session, st domain.State) snapshotResponse {
	return snapshotResponse{
		ID:            s.ID,
		Status:        st.Status,
		Error:         st.Error,
		Search:        s.LastParams(),
		Filters:       st.Filters,
		FiltersActive: st.Filters.Active(),
		TotalFlights:  len(st.AllFlights),
		FilteredCount: len(st.FilteredFlights),
		PriceData:     st.PriceData,
		Airlines:      domain.AvailableAirlines(st.AllFlights),
		PriceRange:    domain.PriceRangeOf(st.AllFlights),
		AveragePrice:  domain.AveragePrice(st.FilteredFlights),
	}
}

// lookupSession resolves the {id} URL parameter or writes a 404.
func lookupSession(d deps.Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := d.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Create()
		if errors.Is(err, session.ErrStoreFull) {
			d.Logger.Warn("session cap reached", logger.Int("sessions", d.Sessions.Count()))
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusServiceUnavailable, "too many browse sessions, try again later")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		d.Logger.Debug("session created", logger.String("session", s.ID))
		writeJSON(w, http.StatusCreated, sessionCreatedResponse{ID: s.ID})
	}
}

// GetSession reports the session state. Reading a finished search returns
// the session to idle.
func GetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snapshotOf(s, s.Observe()))
	}
}

func DeleteSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Sessions.Delete(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SearchSession runs a flight search for the session. Provider failures
// are reported in the body with a 200; only malformed input is a 4xx.
func SearchSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}

		var params domain.SearchParams
		if err := decodeBody(w, r, &params); err != nil {
			writeError(w, http.StatusBadRequest, "invalid search body")
			return
		}

		outcome, err := s.Search(r.Context(), d.Searcher, params)
		resp := searchResponse{
			Outcome:          outcome,
			Error:            domain.Message(err),
			snapshotResponse: snapshotOf(s, s.Snapshot()),
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp.Field = ve.Field
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		if err != nil {
			d.Logger.Warn("flight search failed",
				logger.String("session", s.ID),
				logger.String("origin", s.LastParams().Origin),
				logger.String("destination", s.LastParams().Destination),
				logger.Error(err))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func PatchFilters(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}

		var patch domain.FilterPatch
		if err := decodeBody(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid filter body")
			return
		}
		if err := patch.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "stops"})
			return
		}
		writeJSON(w, http.StatusOK, snapshotOf(s, s.SetFilters(patch)))
	}
}

func ResetFilters(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snapshotOf(s, s.ResetFilters()))
	}
}

// Flights lists the filtered flights, sorted and paginated.
func Flights(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		policy, err := domain.ParseSortPolicy(q.Get("sort"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		page := 1
		if raw := q.Get("page"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "page must be an integer")
				return
			}
			page = n
		}

		st := s.Snapshot()
		p := domain.Paginate(domain.SortFlights(st.FilteredFlights, policy), page, d.PageSize)

		items := make([]flightView, 0, len(p.Items))
		for _, f := range p.Items {
			items = append(items, flightView{
				Flight:        f,
				DepartureTime: domain.FormatFlightTime(f.Departure.Time),
				DepartureDate: domain.FormatFlightDate(f.Departure.Time),
				ArrivalTime:   domain.FormatFlightTime(f.Arrival.Time),
				ArrivalDate:   domain.FormatFlightDate(f.Arrival.Time),
			})
		}

		writeJSON(w, http.StatusOK, flightsResponse{
			Sort:       policy,
			Items:      items,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
			TotalItems: p.TotalItems,
		})
	}
}

func Prices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, pricesResponse{PriceData: s.Snapshot().PriceData})
	}
}
