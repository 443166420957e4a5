package tracker

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and in query params.
const DateLayout = "2006-01-02"

type User struct {
	ID        string     `json:"id" bson:"-"`
	Username  string     `json:"username" bson:"username"`
	Exercises []Exercise `json:"exercises" bson:"exercises"`
}

// Exercise is a single logged activity, embedded within a User.
// Date is always a calendar date (UTC midnight).
type Exercise struct {
	Description string    `json:"description" bson:"description"`
	Duration    float64   `json:"duration" bson:"duration"`
	Date        time.Time `json:"date" bson:"date"`
}

type exerciseJSON struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

func (e Exercise) MarshalJSON() ([]byte, error) {
	return json.Marshal(exerciseJSON{
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.Format(DateLayout),
	})
}

func (e *Exercise) UnmarshalJSON(data []byte) error {
	var raw exerciseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return fmt.Errorf("exercise date: %w", err)
	}
	e.Description = raw.Description
	e.Duration = raw.Duration
	e.Date = date
	return nil
}

// TruncateToDate drops the time of day, leaving the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (u *User) clone() *User {
	c := &User{
		ID:        u.ID,
		Username:  u.Username,
		Exercises: make([]Exercise, len(u.Exercises)),
	}
	copy(c.Exercises, u.Exercises)
	return c
}
