// Package policy contiene las reglas de autorización: funciones puras que deciden, a partir de
// la identidad, la acción y el recurso, si la operación está permitida.
package policy

import (
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
)

// Action etiqueta de la acción solicitada.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Kind tipo de recurso protegido.
type Kind string

const (
	KindCategory      Kind = "category"
	KindProduct       Kind = "product"
	KindCollaboration Kind = "collaboration"
	KindUser          Kind = "user"
	// KindImporterView consultas de visibilidad del importador (sus proveedores y sus productos).
	KindImporterView Kind = "importer_view"
	// KindSupplierView catálogo propio del proveedor.
	KindSupplierView Kind = "supplier_view"
)

// Identity identidad resuelta por el verificador de sesión. nil = no autenticado.
type Identity struct {
	UserID int64
	Role   entity.Role
	Active bool
}

// Resource descriptor del recurso con sus campos de propiedad (cero = el recurso no lo tiene).
type Resource struct {
	Kind Kind
	// SupplierID dueño del recurso para el rol proveedor (producto, colaboración).
	SupplierID int64
	// ImporterID dueño del recurso para el rol importador (colaboración).
	ImporterID int64
}

// BypassRole rol que supera cualquier chequeo de propiedad.
const BypassRole = entity.RoleAdmin

var (
	all            = []entity.Role{entity.RoleAdmin, entity.RoleImporter, entity.RoleSupplier}
	adminOnly      = []entity.Role{entity.RoleAdmin}
	adminSupplier  = []entity.Role{entity.RoleAdmin, entity.RoleSupplier}
	importerOnly   = []entity.Role{entity.RoleImporter}
	supplierOnly   = []entity.Role{entity.RoleSupplier}
	collabCreators = []entity.Role{entity.RoleAdmin, entity.RoleImporter, entity.RoleSupplier}
)

// allowedRoles conjunto de roles permitidos por recurso y acción. Ausente = nadie.
var allowedRoles = map[Kind]map[Action][]entity.Role{
	KindCategory: {
		ActionRead:   all,
		ActionCreate: adminSupplier,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	},
	KindProduct: {
		ActionRead:   all,
		ActionCreate: supplierOnly,
		ActionUpdate: adminSupplier,
		ActionDelete: adminSupplier,
	},
	KindCollaboration: {
		ActionRead:   all,
		ActionCreate: collabCreators,
		ActionUpdate: all,
		ActionDelete: {entity.RoleAdmin, entity.RoleImporter},
	},
	KindUser: {
		ActionRead:   adminOnly,
		ActionUpdate: adminOnly,
	},
	KindImporterView: {
		ActionRead: importerOnly,
	},
	KindSupplierView: {
		ActionRead: supplierOnly,
	},
}

// CanAct evalúa las reglas en orden y devuelve nil si la acción está permitida o el error de
// dominio del primer rechazo: ErrUnauthorized, ErrUserDisabled o ErrForbidden.
func CanAct(id *Identity, action Action, res Resource) error {
	if id == nil || id.UserID <= 0 {
		return domain.ErrUnauthorized
	}
	if !id.Active {
		return domain.ErrUserDisabled
	}
	if !roleAllowed(id.Role, allowedRoles[res.Kind][action]) {
		return domain.ErrForbidden
	}
	if !ownsResource(id, res) {
		return domain.ErrForbidden
	}
	return nil
}

// ownsResource aplica el chequeo de propiedad cuando el recurso tiene un dueño para el rol de la
// identidad. El rol de bypass pasa siempre.
func ownsResource(id *Identity, res Resource) bool {
	if id.Role == BypassRole {
		return true
	}
	switch id.Role {
	case entity.RoleSupplier:
		return res.SupplierID == 0 || res.SupplierID == id.UserID
	case entity.RoleImporter:
		return res.ImporterID == 0 || res.ImporterID == id.UserID
	}
	return false
}

func roleAllowed(role entity.Role, allowed []entity.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IsParty indica si la identidad es el importador o el proveedor de la colaboración.
func IsParty(id *Identity, c *entity.Collaboration) bool {
	if id == nil || c == nil {
		return false
	}
	switch id.Role {
	case entity.RoleImporter:
		return c.ImporterID == id.UserID
	case entity.RoleSupplier:
		return c.SupplierID == id.UserID
	}
	return false
}

// CollaborationResource descriptor de propiedad de una colaboración.
func CollaborationResource(c *entity.Collaboration) Resource {
	return Resource{Kind: KindCollaboration, ImporterID: c.ImporterID, SupplierID: c.SupplierID}
}

// ProductResource descriptor de propiedad de un producto.
func ProductResource(p *entity.Product) Resource {
	return Resource{Kind: KindProduct, SupplierID: p.SupplierID}
}
