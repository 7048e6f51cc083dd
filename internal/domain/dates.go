package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format accepted by the batch input and CLI.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. Any other shape, including a
// syntactically valid but impossible date, fails with a ValidationError.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date),
		}
	}
	return t, nil
}

// MidnightUTC converts a YYYY-MM-DD calendar date into the midnight-UTC
// instant DPClim expects for period bounds, e.g. "2025-12-21" becomes
// "2025-12-21T00:00:00Z". Validation happens here, before any network call.
func MidnightUTC(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}
