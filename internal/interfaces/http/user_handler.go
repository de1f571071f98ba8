package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/application/usecase"
	"github.com/jhoicas/saradnja-api/internal/domain"
)

// UserHandler administración de usuarios (ADMIN).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        role  query  string  false  "ADMIN | IMPORTER | SUPPLIER"
// @Success      200   {object}  dto.Response
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), c.Query("role"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// SetStatus godoc
// @Summary      Habilitar o deshabilitar un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del usuario"
// @Param        body  body  dto.SetUserStatusRequest  true  "active"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SetUserStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if in.Active == nil {
		return fmt.Errorf("%w: active es obligatorio", domain.ErrValidation)
	}
	out, err := h.uc.SetActive(c.UserContext(), GetIdentity(c), id, *in.Active)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}
