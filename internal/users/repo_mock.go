package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RepoMock is an in-memory users repo, used in tests
type RepoMock struct {
	mutex sync.Mutex
	users map[uuid.UUID]*User
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		users: make(map[uuid.UUID]*User),
	}
}

func (r *RepoMock) Create(_ context.Context, user *User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *RepoMock) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *RepoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *RepoMock) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *RepoMock) Delete(id uuid.UUID) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.users, id)
}

func (r *RepoMock) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.users)
}
