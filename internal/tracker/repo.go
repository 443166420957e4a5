package tracker

import "context"

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=tracker_test

// Repo persists users together with their embedded exercise logs.
type Repo interface {
	// CreateUser stores a new user with an empty log; ErrUsernameTaken if the
	// username is already used.
	CreateUser(ctx context.Context, username string) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	// UserByID returns ErrNotFound both for unknown and malformed ids.
	UserByID(ctx context.Context, id string) (*User, error)
	// AppendExercise appends to the end of the user's log in one atomic write.
	AppendExercise(ctx context.Context, userID string, exercise Exercise) (*User, error)
	Ping(ctx context.Context) error
}
