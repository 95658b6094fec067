package session

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for day keys.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month format.
const MonthLayout = "2006-01"

// Accepted local date-time layouts. Fractional seconds are accepted after
// the seconds field even though the layout does not list them.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an ISO-8601 local date-time in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, fmt.Errorf("Text '%s' could not be parsed: %w", value, firstErr)
}

// FormatTimestamp renders t in the canonical local date-time form.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
