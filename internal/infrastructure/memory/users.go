package memory

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo tabla korisnik en memoria.
type UserRepo struct {
	s    *Store
	inTx bool
}

// Create persiste el usuario; el email es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lockWrite(r.inTx)()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	user.ID = r.s.nextID("korisnik")
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// List ordena por ID como la consulta SQL.
func (r *UserRepo) List(_ context.Context, role entity.Role) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.User
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		if role != "" && u.Role != role {
			continue
		}
		list = append(list, &u)
	}
	return list, nil
}

func (r *UserRepo) SetActive(_ context.Context, id int64, active bool) (*entity.User, error) {
	defer r.s.lockWrite(r.inTx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Active = active
	r.s.users[id] = u
	return &u, nil
}
