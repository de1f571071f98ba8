package repository

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List filtra por rol si role no es vacío.
	List(ctx context.Context, role entity.Role) ([]*entity.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*entity.User, error)
}
