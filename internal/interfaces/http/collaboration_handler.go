package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/internal/application/collaboration"
	"github.com/jhoicas/saradnja-api/internal/application/dto"
)

// CollaborationHandler ciclo de vida de las colaboraciones.
type CollaborationHandler struct {
	engine *collaboration.Engine
}

// NewCollaborationHandler construye el handler.
func NewCollaborationHandler(engine *collaboration.Engine) *CollaborationHandler {
	return &CollaborationHandler{engine: engine}
}

// Request godoc
// @Summary      Solicitar colaboración
// @Description  El importador solicita a un proveedor. 201 si se crea la fila, 200 si se reabre una terminada.
// @Tags         collaborations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCollaborationRequest  true  "importerId, supplierId"
// @Success      201   {object}  dto.Response
// @Success      200   {object}  dto.Response
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/collaborations [post]
func (h *CollaborationHandler) Request(c *fiber.Ctx) error {
	var in dto.CreateCollaborationRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.engine.Request(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return ok(c, status, out.Collaboration)
}

// List godoc
// @Summary      Listar colaboraciones visibles
// @Tags         collaborations
// @Security     Bearer
// @Produce      json
// @Param        state  query  string  false  "REQUESTED | ACTIVE | TERMINATED"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/collaborations [get]
func (h *CollaborationHandler) List(c *fiber.Ctx) error {
	out, err := h.engine.List(c.UserContext(), GetIdentity(c), c.Query("state"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Get godoc
// @Summary      Obtener colaboración
// @Tags         collaborations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la colaboración"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/collaborations/{id} [get]
func (h *CollaborationHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.engine.Get(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Patch godoc
// @Summary      Cambiar estado con flags pending/status
// @Tags         collaborations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la colaboración"
// @Param        body  body  dto.PatchCollaborationRequest  true  "pending, status"
// @Success      200   {object}  dto.Response
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/collaborations/{id} [patch]
func (h *CollaborationHandler) Patch(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.PatchCollaborationRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.engine.Patch(c.UserContext(), GetIdentity(c), id, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Confirm godoc
// @Summary      Confirmar solicitud (SUPPLIER)
// @Tags         collaborations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la colaboración"
// @Success      200  {object}  dto.Response
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/collaborations/{id}/confirm [post]
func (h *CollaborationHandler) Confirm(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.engine.Confirm(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Terminate godoc
// @Summary      Terminar colaboración
// @Tags         collaborations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la colaboración"
// @Success      200  {object}  dto.Response
// @Router       /api/collaborations/{id}/terminate [post]
func (h *CollaborationHandler) Terminate(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.engine.Terminate(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar colaboración
// @Description  ADMIN en cualquier estado; el importador solo cancela solicitudes pendientes.
// @Tags         collaborations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la colaboración"
// @Success      200  {object}  dto.Response
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/collaborations/{id} [delete]
func (h *CollaborationHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.engine.Delete(c.UserContext(), GetIdentity(c), id); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, nil)
}
