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

// UserUseCase administración de usuarios (solo ADMIN).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista usuarios, opcionalmente por rol (acepta ADMIN, IMPORTER/UVOZNIK, SUPPLIER/DOBAVLJAC).
func (uc *UserUseCase) List(ctx context.Context, actor *policy.Identity, role string) ([]dto.UserResponse, error) {
	if err := policy.CanAct(actor, policy.ActionRead, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	var filter entity.Role
	if role = strings.TrimSpace(role); role != "" {
		parsed, err := entity.ParseRole(strings.ToUpper(role))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}
		filter = parsed
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *dto.FromUser(u))
	}
	return out, nil
}

// SetActive habilita o deshabilita el login de un usuario. Un admin no puede deshabilitarse a sí mismo.
func (uc *UserUseCase) SetActive(ctx context.Context, actor *policy.Identity, userID int64, active bool) (*dto.UserResponse, error) {
	if err := policy.CanAct(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindUser}); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, domain.ErrBadID
	}
	if userID == actor.UserID && !active {
		return nil, fmt.Errorf("%w: no puede deshabilitar su propio usuario", domain.ErrValidation)
	}
	u, err := uc.repo.SetActive(ctx, userID, active)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(u), nil
}
