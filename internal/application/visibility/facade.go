// Package visibility responde qué puede ver un importador: sus proveedores, los proveedores
// disponibles para solicitar colaboración y los productos de sus colaboraciones activas.
package visibility

import (
	"context"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var (
	importerView = policy.Resource{Kind: policy.KindImporterView}
	supplierView = policy.Resource{Kind: policy.KindSupplierView}
)

// Facade consultas de lectura. Cada respuesta sale de una única consulta del repositorio.
type Facade struct {
	repo     repository.VisibilityRepository
	products repository.ProductRepository
}

// NewFacade construye la fachada de visibilidad.
func NewFacade(repo repository.VisibilityRepository, products repository.ProductRepository) *Facade {
	return &Facade{repo: repo, products: products}
}

// AvailableSuppliers proveedores activos sin colaboración REQUESTED ni ACTIVE con el importador.
func (f *Facade) AvailableSuppliers(ctx context.Context, actor *policy.Identity) ([]dto.SupplierResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, importerView); err != nil {
		return nil, err
	}
	list, err := f.repo.AvailableSuppliers(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupplierResponse{SupplierID: s.SupplierID, FullName: s.FullName, Email: s.Email})
	}
	return out, nil
}

// MySuppliers proveedores con colaboración activa.
func (f *Facade) MySuppliers(ctx context.Context, actor *policy.Identity) ([]dto.MySupplierResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, importerView); err != nil {
		return nil, err
	}
	list, err := f.repo.MySuppliers(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MySupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.MySupplierResponse{
			SupplierID:      s.SupplierID,
			FullName:        s.FullName,
			Email:           s.Email,
			CollaborationID: s.CollaborationID,
			StartedAt:       s.StartedAt,
			Status:          s.Status,
		})
	}
	return out, nil
}

// ProductsOfMySuppliers productos de proveedores con colaboración activa, con filtros opcionales.
func (f *Facade) ProductsOfMySuppliers(ctx context.Context, actor *policy.Identity, filter entity.ProductFilter) ([]dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, importerView); err != nil {
		return nil, err
	}
	if filter.SupplierID < 0 || filter.CategoryID < 0 {
		return nil, domain.ErrBadID
	}
	list, err := f.repo.ProductsOfMySuppliers(ctx, actor.UserID, filter)
	if err != nil {
		return nil, err
	}
	return dto.FromProductViews(list), nil
}

// ProductsOfSupplierIfCollaborating catálogo completo del proveedor si la colaboración está activa;
// si no, ErrNotCollaborating.
func (f *Facade) ProductsOfSupplierIfCollaborating(ctx context.Context, actor *policy.Identity, supplierID int64) ([]dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, importerView); err != nil {
		return nil, err
	}
	if supplierID <= 0 {
		return nil, domain.ErrBadID
	}
	ok, err := f.repo.HasActiveCollaboration(ctx, actor.UserID, supplierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotCollaborating
	}
	list, err := f.repo.ProductsOfMySuppliers(ctx, actor.UserID, entity.ProductFilter{SupplierID: supplierID})
	if err != nil {
		return nil, err
	}
	return dto.FromProductViews(list), nil
}

// SupplierProducts catálogo propio del proveedor autenticado, opcionalmente por categoría.
func (f *Facade) SupplierProducts(ctx context.Context, actor *policy.Identity, categoryID int64) ([]dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, supplierView); err != nil {
		return nil, err
	}
	if categoryID < 0 {
		return nil, domain.ErrBadID
	}
	list, err := f.products.List(ctx, entity.ProductFilter{SupplierID: actor.UserID, CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return dto.FromProductViews(list), nil
}
