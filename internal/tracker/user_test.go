package tracker_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/exercisetracker/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercise_JSONDateFormat(t *testing.T) {
	exercise := tracker.Exercise{
		Description: "running",
		Duration:    30.5,
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	exerciseJson, err := json.Marshal(exercise)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"running","duration":30.5,"date":"2024-01-05"}`, string(exerciseJson))

	var decoded tracker.Exercise
	require.NoError(t, json.Unmarshal(exerciseJson, &decoded))
	assert.Equal(t, exercise, decoded)
}

func TestExercise_UnmarshalInvalidDate(t *testing.T) {
	var decoded tracker.Exercise
	err := json.Unmarshal([]byte(`{"description":"running","duration":30,"date":"last week"}`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exercise date")
}

func TestUser_JSON(t *testing.T) {
	user := tracker.User{
		ID:       "5f7d",
		Username: "alice",
		Exercises: []tracker.Exercise{
			{Description: "cycling", Duration: 45, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	}

	userJson, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "5f7d",
		"username": "alice",
		"exercises": [{"description":"cycling","duration":45,"date":"2024-01-05"}]
	}`, string(userJson))
}

func TestTruncateToDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2024, 3, 10, 2, 15, 0, 0, loc)

	// 02:15 at UTC+5 is still the previous day in UTC
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), tracker.TruncateToDate(ts))

	truncated := tracker.TruncateToDate(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, truncated, tracker.TruncateToDate(truncated))
}
