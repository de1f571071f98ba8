package repository

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// VisibilityRepository consultas de lectura que combinan colaboraciones con el catálogo.
// Cada método es una sola consulta (joins / NOT EXISTS), nunca un filtro en memoria.
type VisibilityRepository interface {
	// AvailableSuppliers proveedores activos sin colaboración REQUESTED ni ACTIVE con el importador.
	AvailableSuppliers(ctx context.Context, importerID int64) ([]*entity.SupplierSummary, error)
	// MySuppliers proveedores con colaboración ACTIVE.
	MySuppliers(ctx context.Context, importerID int64) ([]*entity.SupplierCollaboration, error)
	// ProductsOfMySuppliers productos de proveedores con colaboración ACTIVE, con filtros opcionales.
	ProductsOfMySuppliers(ctx context.Context, importerID int64, filter entity.ProductFilter) ([]*entity.ProductView, error)
	HasActiveCollaboration(ctx context.Context, importerID, supplierID int64) (bool, error)
}
