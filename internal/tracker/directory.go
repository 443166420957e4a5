package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/exercisetracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Directory maps unique usernames to user records.
type Directory struct {
	repo Repo
}

func NewDirectory(repo Repo) *Directory {
	return &Directory{
		repo: repo,
	}
}

// CreateUser registers a new username. It fails with ErrDuplicateUsername
// when the username is already registered, leaving the existing user intact.
func (d *Directory) CreateUser(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "directory.create-user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	_, found, err := d.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, ErrDuplicateUsername
	}

	user, err := d.repo.CreateUser(ctx, username)
	if errors.Is(err, ErrUsernameTaken) {
		// lost the check-then-create race, the store constraint caught it
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

func (d *Directory) FindByUsername(ctx context.Context, username string) (*User, bool, error) {
	user, err := d.repo.UserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user by username: %w", err)
	}
	return user, true, nil
}

func (d *Directory) FindByID(ctx context.Context, id string) (*User, bool, error) {
	user, err := d.repo.UserByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find user by id: %w", err)
	}
	return user, true, nil
}
