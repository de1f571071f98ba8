package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/internal/application/visibility"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// VisibilityHandler vistas del importador y catálogo propio del proveedor.
type VisibilityHandler struct {
	facade *visibility.Facade
}

// NewVisibilityHandler construye el handler.
func NewVisibilityHandler(facade *visibility.Facade) *VisibilityHandler {
	return &VisibilityHandler{facade: facade}
}

// AvailableSuppliers godoc
// @Summary      Proveedores sin solicitud ni colaboración activa
// @Tags         importer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/importer/suppliers/available [get]
func (h *VisibilityHandler) AvailableSuppliers(c *fiber.Ctx) error {
	out, err := h.facade.AvailableSuppliers(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// MySuppliers godoc
// @Summary      Proveedores con colaboración activa
// @Tags         importer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Router       /api/importer/suppliers [get]
func (h *VisibilityHandler) MySuppliers(c *fiber.Ctx) error {
	out, err := h.facade.MySuppliers(c.UserContext(), GetIdentity(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// Products godoc
// @Summary      Productos de mis proveedores
// @Tags         importer
// @Security     Bearer
// @Produce      json
// @Param        supplierId  query  int  false  "Filtrar por proveedor"
// @Param        categoryId  query  int  false  "Filtrar por categoría"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/importer/products [get]
func (h *VisibilityHandler) Products(c *fiber.Ctx) error {
	supplierID, err := queryID(c, "supplierId")
	if err != nil {
		return err
	}
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return err
	}
	filter := entity.ProductFilter{SupplierID: supplierID, CategoryID: categoryID}
	out, err := h.facade.ProductsOfMySuppliers(c.UserContext(), GetIdentity(c), filter)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// SupplierProducts godoc
// @Summary      Productos de un proveedor con colaboración activa
// @Tags         importer
// @Security     Bearer
// @Produce      json
// @Param        supplierId  path  int  true  "ID del proveedor"
// @Success      200  {object}  dto.Response
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/importer/suppliers/{supplierId}/products [get]
func (h *VisibilityHandler) SupplierProducts(c *fiber.Ctx) error {
	supplierID, err := pathID(c, "supplierId")
	if err != nil {
		return err
	}
	out, err := h.facade.ProductsOfSupplierIfCollaborating(c.UserContext(), GetIdentity(c), supplierID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}

// OwnCatalog godoc
// @Summary      Catálogo propio del proveedor
// @Tags         supplier
// @Security     Bearer
// @Produce      json
// @Param        categoryId  query  int  false  "Filtrar por categoría"
// @Success      200  {object}  dto.Response
// @Router       /api/supplier/products [get]
func (h *VisibilityHandler) OwnCatalog(c *fiber.Ctx) error {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return err
	}
	out, err := h.facade.SupplierProducts(c.UserContext(), GetIdentity(c), categoryID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, out)
}
