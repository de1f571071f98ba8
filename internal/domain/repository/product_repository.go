package repository

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetView devuelve el producto con nombres de categoría y proveedor.
	GetView(ctx context.Context, id int64) (*entity.ProductView, error)
	// List filtra por proveedor y/o categoría (cero = sin filtro).
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.ProductView, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrNotFound si no existe y domain.ErrConflict si está en alguna stavka.
	Delete(ctx context.Context, id int64) error
}
