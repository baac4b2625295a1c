package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. Username es único.
type UserRepo struct {
	s *Store
}

// usernameTaken requiere s.mu tomado.
func (r *UserRepo) usernameTaken(username string, exceptID int64) bool {
	for _, u := range r.s.users {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.usernameTaken(user.Username, 0) {
		return domain.ErrUsernameTaken
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, role string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if role != "" && u.Role != role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if r.usernameTaken(user.Username, user.ID) {
		return domain.ErrUsernameTaken
	}
	cp := *user
	cp.CreatedAt = prev.CreatedAt
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}
