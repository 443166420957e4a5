package tracker

import (
	"net/url"
	"strconv"
	"time"
)

// Filter is the optional {from, to, limit} bundle applied to a user log.
// Nil fields are not applied.
type Filter struct {
	From  *time.Time
	To    *time.Time
	Limit *int
}

func (f Filter) IsEmpty() bool {
	return f.From == nil && f.To == nil && f.Limit == nil
}

// FilterLog returns the entries matching the filter, in their original order.
// Date bounds are inclusive; the limit is applied after the date bounds.
// The input slice is never modified, the result is always a new slice.
func FilterLog(entries []Exercise, f Filter) []Exercise {
	filtered := make([]Exercise, 0, len(entries))
	for _, e := range entries {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		filtered = append(filtered, e)
	}

	if f.Limit != nil && *f.Limit < len(filtered) {
		limit := max(*f.Limit, 0)
		filtered = filtered[:limit:limit]
	}

	return filtered
}

// ParseFilter reads the from, to and limit query params. Missing params stay nil.
func ParseFilter(query url.Values) (Filter, error) {
	var f Filter

	if query.Has("from") {
		from, err := ParseDate(query.Get("from"))
		if err != nil {
			return Filter{}, NewValidationError("from", "invalid from date, expected format YYYY-MM-DD")
		}
		f.From = &from
	}

	if query.Has("to") {
		to, err := ParseDate(query.Get("to"))
		if err != nil {
			return Filter{}, NewValidationError("to", "invalid to date, expected format YYYY-MM-DD")
		}
		f.To = &to
	}

	if query.Has("limit") {
		limit, err := strconv.Atoi(query.Get("limit"))
		if err != nil || limit < 0 {
			return Filter{}, NewValidationError("limit", "limit must be a non-negative integer")
		}
		f.Limit = &limit
	}

	return f, nil
}
