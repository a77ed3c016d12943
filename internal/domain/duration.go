package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var isoDurationRe = regexp.MustCompile(`P(?:(\d+)D)?T(?:(\d+)H)?(?:(\d+)M)?`)

// maxDurationComponent bounds each numeric component so the minute total
// cannot overflow. Larger values are treated as unparseable.
const maxDurationComponent = 1_000_000

// ParseDuration converts a provider duration such as "PT2H30M" into its
// display form ("2h 30m") and total minutes.
//
// Either component may be absent: "PT2H" -> "2h", "PT45M" -> "45m".
// Components that are present are always rendered, so "PT0H0M" -> "0h 0m".
// A day part is kept: "P1DT2H30M" -> "1d 2h 30m" (1590 minutes).
// A string that does not parse is returned unchanged with 0 minutes.
func ParseDuration(iso string) (string, int) {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return iso, 0
	}

	parts := make([]string, 0, 3)
	minutes := 0
	for i, unit := range []struct {
		suffix string
		factor int
	}{{"d", 24 * 60}, {"h", 60}, {"m", 1}} {
		raw := m[i+1]
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n > maxDurationComponent {
			return iso, 0
		}
		minutes += n * unit.factor
		parts = append(parts, raw+unit.suffix)
	}
	return strings.Join(parts, " "), minutes
}
