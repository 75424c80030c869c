package types

import (
	"time"

	ierr "github.com/flexprice/couponmanager/internal/errors"
)

// DateLayout is the wire format for calendar dates
const DateLayout = time.DateOnly

// ToDate drops the time of day, keeping the calendar date as seen in t's
// location, and returns it at midnight UTC.
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("Date must be in %s format", DateLayout).
			WithReportableDetails(map[string]any{
				"date": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return ToDate(t), nil
}
