package repository

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	// Create devuelve domain.ErrDuplicate si el nombre ya existe.
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// Delete devuelve domain.ErrNotFound si no existe y domain.ErrConflict si hay productos que la referencian.
	Delete(ctx context.Context, id int64) error
}
