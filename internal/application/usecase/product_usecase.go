package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

var productKind = policy.Resource{Kind: policy.KindProduct}

// ProductUseCase catálogo de productos. El dueño es el proveedor que lo crea; ADMIN pasa
// cualquier chequeo de propiedad. La propiedad se evalúa sobre una lectura fresca en la misma tx.
type ProductUseCase struct {
	repo       repository.ProductRepository
	visibility repository.VisibilityRepository
	tx         repository.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, visibility repository.VisibilityRepository, tx repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, visibility: visibility, tx: tx}
}

// List ADMIN ve todo, SUPPLIER sus productos, IMPORTER los de sus colaboraciones activas.
func (uc *ProductUseCase) List(ctx context.Context, actor *policy.Identity, categoryID int64) ([]dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, productKind); err != nil {
		return nil, err
	}
	filter := entity.ProductFilter{CategoryID: categoryID}
	var (
		list []*entity.ProductView
		err  error
	)
	switch actor.Role {
	case entity.RoleSupplier:
		filter.SupplierID = actor.UserID
		list, err = uc.repo.List(ctx, filter)
	case entity.RoleImporter:
		list, err = uc.visibility.ProductsOfMySuppliers(ctx, actor.UserID, filter)
	default:
		list, err = uc.repo.List(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	return dto.FromProductViews(list), nil
}

// GetByID un importador solo ve productos de proveedores con colaboración activa.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor *policy.Identity, id int64) (*dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, productKind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrBadID
	}
	v, err := uc.repo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role == entity.RoleImporter {
		ok, err := uc.visibility.HasActiveCollaboration(ctx, actor.UserID, v.SupplierID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotCollaborating
		}
	} else if err := policy.CanAct(actor, policy.ActionRead, policy.ProductResource(&v.Product)); err != nil {
		return nil, err
	}
	return dto.FromProductView(v), nil
}

// Create publica un producto del proveedor autenticado.
func (uc *ProductUseCase) Create(ctx context.Context, actor *policy.Identity, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionCreate, productKind); err != nil {
		return nil, err
	}
	p := &entity.Product{
		Code:       strings.TrimSpace(in.Code),
		Name:       strings.TrimSpace(in.Name),
		ImageRef:   strings.TrimSpace(in.ImageRef),
		Width:      in.Width,
		Height:     in.Height,
		Length:     in.Length,
		Price:      in.Price,
		CategoryID: in.CategoryID,
		SupplierID: actor.UserID,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return dto.FromProduct(p), nil
}

// Update aplica el parche si el actor es dueño (o ADMIN). supplierId no se puede cambiar.
func (uc *ProductUseCase) Update(ctx context.Context, actor *policy.Identity, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, productKind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrBadID
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		current, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := policy.CanAct(actor, policy.ActionUpdate, policy.ProductResource(current)); err != nil {
			return err
		}
		if in.SupplierID != nil {
			return fmt.Errorf("%w: no está permitido modificar supplierId", domain.ErrValidation)
		}
		if in.Empty() {
			return fmt.Errorf("%w: no hay campos para modificar", domain.ErrValidation)
		}
		updated := applyProductPatch(*current, in)
		if err := validateProduct(&updated); err != nil {
			return err
		}
		if sameProduct(&updated, current) {
			return domain.ErrNoChanges
		}
		if err := r.Products.Update(ctx, &updated); err != nil {
			return err
		}
		out = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.FromProduct(out), nil
}

// Delete borra el producto si el actor es dueño (o ADMIN); ErrConflict si está en un contenedor.
func (uc *ProductUseCase) Delete(ctx context.Context, actor *policy.Identity, id int64) error {
	if err := policy.CanAct(actor, policy.ActionDelete, productKind); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrBadID
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		current, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := policy.CanAct(actor, policy.ActionDelete, policy.ProductResource(current)); err != nil {
			return err
		}
		return r.Products.Delete(ctx, id)
	})
}

func applyProductPatch(p entity.Product, in dto.UpdateProductRequest) entity.Product {
	if in.Code != nil {
		p.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.ImageRef != nil {
		p.ImageRef = strings.TrimSpace(*in.ImageRef)
	}
	if in.Width != nil {
		p.Width = *in.Width
	}
	if in.Height != nil {
		p.Height = *in.Height
	}
	if in.Length != nil {
		p.Length = *in.Length
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	return p
}

func validateProduct(p *entity.Product) error {
	switch {
	case p.Code == "":
		return fmt.Errorf("%w: code es obligatorio", domain.ErrValidation)
	case p.Name == "":
		return fmt.Errorf("%w: name es obligatorio", domain.ErrValidation)
	case p.Width < 0 || p.Height < 0 || p.Length < 0:
		return fmt.Errorf("%w: las dimensiones no pueden ser negativas", domain.ErrValidation)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrValidation)
	case p.CategoryID <= 0:
		return fmt.Errorf("%w: categoryId debe ser un entero positivo", domain.ErrValidation)
	}
	return nil
}

func sameProduct(a, b *entity.Product) bool {
	return a.Code == b.Code && a.Name == b.Name && a.ImageRef == b.ImageRef &&
		a.Width == b.Width && a.Height == b.Height && a.Length == b.Length &&
		a.Price.Equal(b.Price) && a.CategoryID == b.CategoryID
}
