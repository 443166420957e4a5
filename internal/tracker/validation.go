package tracker

import (
	"fmt"
	"math"
	"strings"
	"time"
)

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return NewValidationError("username", "username is required")
	}
	return nil
}

// ValidateExercise checks every required exercise field, reporting failures
// in field order: description, duration, date.
func ValidateExercise(e Exercise) error {
	verr := &ValidationError{}
	if strings.TrimSpace(e.Description) == "" {
		verr.add("description", "description is required")
	}
	if math.IsNaN(e.Duration) || math.IsInf(e.Duration, 0) || e.Duration <= 0 {
		verr.add("duration", "duration must be a positive number")
	}
	if e.Date.IsZero() {
		verr.add("date", "date is required")
	}
	return verr.errOrNil()
}

// shortDateLayout also takes month and day without the leading zero.
const shortDateLayout = "2006-1-2"

// ParseDate accepts a calendar date (2006-01-02, or 2006-1-2) or an RFC3339
// timestamp, and returns the calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(shortDateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return TruncateToDate(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date [%s], expected format YYYY-MM-DD", s)
}
