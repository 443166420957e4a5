package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/exercisetracker/internal/telemetry/tracing"
	"github.com/2beens/exercisetracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS public.tracker_user
(
    id         UUID PRIMARY KEY,
    username   VARCHAR     NOT NULL UNIQUE,
    exercises  JSONB       NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL
);
`

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

// EnsureSchema creates the user table if it does not exist yet.
func (r *PsqlRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PsqlRepo) CreateUser(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.create-user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	id := uuid.New()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO tracker_user (id, username, exercises, created_at) VALUES ($1, $2, '[]', $3);`,
		id.String(), username, time.Now(),
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", id.String()))

	return &User{
		ID:        id.String(),
		Username:  username,
		Exercises: make([]Exercise, 0),
	}, nil
}

func (r *PsqlRepo) UserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.user-by-username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`SELECT id::text, username, exercises FROM tracker_user WHERE username = $1;`,
		username,
	)
	return scanUser(row)
}

func (r *PsqlRepo) UserByID(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.user-by-id")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(
		ctx,
		`SELECT id::text, username, exercises FROM tracker_user WHERE id = $1;`,
		id,
	)
	return scanUser(row)
}

func (r *PsqlRepo) AppendExercise(ctx context.Context, userID string, exercise Exercise) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracker.append-exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}

	exerciseJson, err := json.Marshal([]Exercise{exercise})
	if err != nil {
		return nil, fmt.Errorf("marshal exercise: %w", err)
	}

	row := r.db.QueryRow(
		ctx,
		`UPDATE tracker_user SET exercises = exercises || $2::jsonb
			WHERE id = $1
			RETURNING id::text, username, exercises;`,
		userID, string(exerciseJson),
	)
	return scanUser(row)
}

func (r *PsqlRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var exercisesBytes []byte
	if err := row.Scan(&user.ID, &user.Username, &exercisesBytes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if len(exercisesBytes) > 0 {
		if err := json.Unmarshal(exercisesBytes, &user.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal exercises for user %s: %w", user.ID, err)
		}
	}
	if user.Exercises == nil {
		user.Exercises = make([]Exercise, 0)
	}

	return &user, nil
}
