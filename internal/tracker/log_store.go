package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/exercisetracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type AppendParams struct {
	UserID      string
	Description string
	Duration    float64
	// Date is optional, today's date is used when nil.
	Date *time.Time
}

// LogStore owns the ordered exercise log of each user.
type LogStore struct {
	repo      Repo
	directory *Directory
	now       func() time.Time
}

func NewLogStore(repo Repo, directory *Directory) *LogStore {
	return &LogStore{
		repo:      repo,
		directory: directory,
		now:       time.Now,
	}
}

func (s *LogStore) AppendExercise(ctx context.Context, params AppendParams) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logstore.append-exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", params.UserID))

	if _, found, err := s.directory.FindByID(ctx, params.UserID); err != nil {
		return nil, err
	} else if !found {
		return nil, ErrUserNotFound
	}

	exercise := Exercise{
		Description: params.Description,
		Duration:    params.Duration,
	}
	if params.Date != nil {
		exercise.Date = TruncateToDate(*params.Date)
	} else {
		exercise.Date = TruncateToDate(s.now())
	}

	if err := ValidateExercise(exercise); err != nil {
		return nil, err
	}

	user, err := s.repo.AppendExercise(ctx, params.UserID, exercise)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("append exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercises.count", len(user.Exercises)))
	return user, nil
}

// GetLog returns the full, unfiltered log of a user in insertion order.
func (s *LogStore) GetLog(ctx context.Context, userID string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logstore.get-log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	user, found, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}

	if user.Exercises == nil {
		return make([]Exercise, 0), nil
	}
	return user.Exercises, nil
}
