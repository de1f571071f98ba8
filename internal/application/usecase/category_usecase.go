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

var categoryResource = policy.Resource{Kind: policy.KindCategory}

// CategoryUseCase CRUD de categorías. Lectura para cualquier rol; alta ADMIN/SUPPLIER; resto ADMIN.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context, actor *policy.Identity) ([]dto.CategoryResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, categoryResource); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *dto.FromCategory(c))
	}
	return out, nil
}

// GetByID obtiene una categoría; ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, actor *policy.Identity, id int64) (*dto.CategoryResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, categoryResource); err != nil {
		return nil, err
	}
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromCategory(c), nil
}

// Create crea una categoría con nombre único.
func (uc *CategoryUseCase) Create(ctx context.Context, actor *policy.Identity, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := policy.CanAct(actor, policy.ActionCreate, categoryResource); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrValidation)
	}
	c := &entity.Category{Name: name, Description: normalizeOptional(in.Description)}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return dto.FromCategory(c), nil
}

// Update aplica el parche; ErrNoChanges si no difiere de lo guardado.
func (uc *CategoryUseCase) Update(ctx context.Context, actor *policy.Identity, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, categoryResource); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Description == nil {
		return nil, fmt.Errorf("%w: no hay campos para modificar", domain.ErrValidation)
	}
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *c
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede ser vacío", domain.ErrValidation)
		}
		updated.Name = name
	}
	if in.Description != nil {
		updated.Description = normalizeOptional(in.Description)
	}
	if updated.Name == c.Name && equalOptional(updated.Description, c.Description) {
		return nil, domain.ErrNoChanges
	}
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return dto.FromCategory(&updated), nil
}

// Delete borra la categoría; ErrConflict mientras haya productos que la usen.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor *policy.Identity, id int64) error {
	if err := policy.CanAct(actor, policy.ActionDelete, categoryResource); err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrBadID
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CategoryUseCase) find(ctx context.Context, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, domain.ErrBadID
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// normalizeOptional recorta el texto; vacío se guarda como NULL.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
