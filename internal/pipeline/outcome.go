package pipeline

import "github.com/MrSnakeDoc/flightscope/internal/domain"

// Outcome classifies a finished search for the caller.
type Outcome string

const (
	OutcomeResults   Outcome = "results"
	OutcomeNoResults Outcome = "no_results"
	OutcomeError     Outcome = "error"
)

// Classify tells an empty result apart from a failure.
func Classify(flights []domain.Flight, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeError
	case len(flights) == 0:
		return OutcomeNoResults
	default:
		return OutcomeResults
	}
}
