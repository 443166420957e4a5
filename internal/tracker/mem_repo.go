package tracker

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemRepo keeps users in memory. Used in tests and for local runs
// with store = "memory".
type MemRepo struct {
	mutex      sync.RWMutex
	users      map[string]*User
	byUsername map[string]string
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		users:      make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

func (r *MemRepo) CreateUser(_ context.Context, username string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.byUsername[username]; ok {
		return nil, ErrUsernameTaken
	}

	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Exercises: make([]Exercise, 0),
	}
	r.users[user.ID] = user
	r.byUsername[username] = user.ID

	return user.clone(), nil
}

func (r *MemRepo) UserByUsername(_ context.Context, username string) (*User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return r.users[id].clone(), nil
}

func (r *MemRepo) UserByID(_ context.Context, id string) (*User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user.clone(), nil
}

func (r *MemRepo) AppendExercise(_ context.Context, userID string, exercise Exercise) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	user.Exercises = append(user.Exercises, exercise)
	return user.clone(), nil
}

func (r *MemRepo) Ping(context.Context) error {
	return nil
}
