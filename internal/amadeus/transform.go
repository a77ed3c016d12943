package amadeus

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/logger"
)

// PricePolicy decides what happens to an offer that cannot be normalized.
type PricePolicy string

const (
	// PolicyStrict fails the whole transform.
	PolicyStrict PricePolicy = "strict"
	// PolicyLenient drops the offending offer and keeps the rest.
	PolicyLenient PricePolicy = "lenient"
)

// ParsePricePolicy maps a config value to a policy. Empty means lenient.
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch PricePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown price policy %q", s)
	}
}

// CarrierNames resolves a carrier code when the response dictionary lacks it.
type CarrierNames interface {
	Name(code string) (string, bool)
}

// Transformer turns raw offers into domain flights.
type Transformer struct {
	policy   PricePolicy
	fallback CarrierNames
	log      logger.Logger
}

// NewTransformer builds a transformer. fallback may be nil.
func NewTransformer(policy PricePolicy, fallback CarrierNames, log logger.Logger) *Transformer {
	if policy == "" {
		policy = PolicyLenient
	}
	return &Transformer{policy: policy, fallback: fallback, log: log}
}

// Policy returns the active price policy.
func (t *Transformer) Policy() PricePolicy { return t.policy }

// Transform normalizes offers in order. Only the first itinerary of each
// offer is read. A nil or empty offer list yields an empty, non-nil slice.
func (t *Transformer) Transform(offers []Offer, carriers map[string]string) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0, len(offers))
	for i := range offers {
		f, err := t.transformOne(&offers[i], carriers)
		if err != nil {
			if t.policy == PolicyStrict {
				return nil, err
			}
			t.log.Warn("dropping malformed offer",
				logger.String("offer_id", offers[i].ID),
				logger.Error(err))
			continue
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func (t *Transformer) transformOne(o *Offer, carriers map[string]string) (domain.Flight, error) {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return domain.Flight{}, fmt.Errorf("%w: offer %s has no segments", domain.ErrTransformation, o.ID)
	}
	price, err := parsePrice(o.Price.Total)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("%w: offer %s: %w", domain.ErrTransformation, o.ID, err)
	}

	itin := o.Itineraries[0]
	first := itin.Segments[0]
	last := itin.Segments[len(itin.Segments)-1]
	duration, minutes := domain.ParseDuration(itin.Duration)

	return domain.Flight{
		ID:              o.ID,
		Price:           price,
		Airline:         t.airline(first.CarrierCode, carriers),
		Stops:           len(itin.Segments) - 1,
		Duration:        duration,
		DurationMinutes: minutes,
		Departure:       domain.Endpoint{Time: first.Departure.At, Airport: first.Departure.IATACode},
		Arrival:         domain.Endpoint{Time: last.Arrival.At, Airport: last.Arrival.IATACode},
	}, nil
}

// airline resolves code: response dictionary, then the local directory,
// then the code itself.
func (t *Transformer) airline(code string, carriers map[string]string) string {
	if name, ok := carriers[code]; ok && name != "" {
		return name
	}
	if t.fallback != nil {
		if name, ok := t.fallback.Name(code); ok {
			return name
		}
	}
	return code
}

var errBadPrice = errors.New("invalid price")

func parsePrice(total string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(total), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", errBadPrice, total)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w %q", errBadPrice, total)
	}
	return v, nil
}
