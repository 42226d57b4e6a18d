package memory

import (
	"context"

	"github.com/tasklight/tasklight/internal/auth/domain"
	"github.com/tasklight/tasklight/internal/auth/store"
)

type usersRepo struct {
	s       *Store
	locking bool
}

func (r *usersRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	defer r.lock()()

	if _, taken := r.s.usersByEmail[u.EmailNormalized]; taken {
		return store.ErrAlreadyExists
	}
	r.s.users[u.ID] = u
	r.s.usersByEmail[u.EmailNormalized] = u.ID
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	defer r.lock()()

	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, emailNormalized string) (domain.User, error) {
	defer r.lock()()

	id, ok := r.s.usersByEmail[emailNormalized]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	defer r.lock()()

	return int64(len(r.s.users)), nil
}
