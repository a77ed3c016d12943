package domain

import "slices"

// SearchStatus is the lifecycle of the search that feeds a browse state.
type SearchStatus string

const (
	StatusIdle      SearchStatus = "idle"
	StatusSearching SearchStatus = "searching"
	StatusSuccess   SearchStatus = "success"
	StatusFailed    SearchStatus = "failed"
)

// State is everything the results page derives from one search.
//
// FilteredFlights and PriceData are always recomputed from AllFlights and
// Filters inside Reduce; they are never written independently.
type State struct {
	AllFlights      []Flight
	Filters         FlightFilters
	FilteredFlights []Flight
	PriceData       []PricePoint

	Status SearchStatus
	Error  string // message of the last failed search, cleared when a new one starts

	// LatestSeq is the sequence number of the most recently started search.
	// Results carrying an older number are discarded.
	LatestSeq uint64
}

// NewState returns the state of a fresh session: no flights, no filters.
func NewState() State {
	return State{
		AllFlights:      []Flight{},
		FilteredFlights: []Flight{},
		PriceData:       []PricePoint{},
		Status:          StatusIdle,
	}
}

// Action is a state transition understood by Reduce.
type Action interface {
	reduce(State) State
}

// Reduce returns the state that results from applying a to s.
func Reduce(s State, a Action) State {
	return a.reduce(s)
}

// SearchStarted marks a new search in flight.
type SearchStarted struct{ Seq uint64 }

// SearchSucceeded delivers the flights of search Seq.
type SearchSucceeded struct {
	Seq     uint64
	Flights []Flight
}

// SearchFailed delivers the failure of search Seq.
type SearchFailed struct {
	Seq uint64
	Err error
}

// FiltersChanged shallow-merges a patch into the filters.
type FiltersChanged struct{ Patch FilterPatch }

// FiltersReset drops every filter constraint.
type FiltersReset struct{}

// OutcomeObserved returns a terminal search status to idle.
type OutcomeObserved struct{}

func (a SearchStarted) reduce(s State) State {
	if a.Seq <= s.LatestSeq {
		return s
	}
	s.LatestSeq = a.Seq
	s.Status = StatusSearching
	s.Error = ""
	return s
}

func (a SearchSucceeded) reduce(s State) State {
	if a.Seq != s.LatestSeq {
		return s
	}
	s.AllFlights = slices.Clone(a.Flights)
	if s.AllFlights == nil {
		s.AllFlights = []Flight{}
	}
	s.Status = StatusSuccess
	s.Error = ""
	return derive(s)
}

func (a SearchFailed) reduce(s State) State {
	if a.Seq != s.LatestSeq {
		return s
	}
	s.Status = StatusFailed
	s.Error = Message(a.Err)
	if s.Error == "" {
		s.Error = Message(ErrSearch)
	}
	return s
}

func (a FiltersChanged) reduce(s State) State {
	s.Filters = MergeFilters(s.Filters, a.Patch)
	return derive(s)
}

func (FiltersReset) reduce(s State) State {
	s.Filters = FlightFilters{}
	return derive(s)
}

func (OutcomeObserved) reduce(s State) State {
	if s.Status == StatusSuccess || s.Status == StatusFailed {
		s.Status = StatusIdle
	}
	return s
}

func derive(s State) State {
	s.FilteredFlights = ApplyFilters(s.AllFlights, s.Filters)
	s.PriceData = Aggregate(s.FilteredFlights)
	return s
}
