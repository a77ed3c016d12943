package domain

import "time"

// Layouts accepted for provider timestamps. The provider sends local
// times without an offset.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseFlightTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatFlightTime renders a timestamp as "2:30 PM". Unparseable input is
// returned unchanged.
func FormatFlightTime(iso string) string {
	t, ok := parseFlightTime(iso)
	if !ok {
		return iso
	}
	return t.Format("3:04 PM")
}

// FormatFlightDate renders a timestamp as "Jan 17". Unparseable input is
// returned unchanged.
func FormatFlightDate(iso string) string {
	t, ok := parseFlightTime(iso)
	if !ok {
		return iso
	}
	return t.Format("Jan 2")
}
