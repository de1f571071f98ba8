package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
)

func identity(id int64, role entity.Role) *policy.Identity {
	return &policy.Identity{UserID: id, Role: role, Active: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de las reglas
// ──────────────────────────────────────────────────────────────────────────────

func TestCanAct_SinIdentidad_Unauthorized(t *testing.T) {
	err := policy.CanAct(nil, policy.ActionRead, policy.Resource{Kind: policy.KindCategory})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCanAct_UsuarioInactivo_AntesQueRol(t *testing.T) {
	id := &policy.Identity{UserID: 3, Role: entity.RoleImporter, Active: false}
	// Aunque el rol tampoco está permitido, gana USER_DISABLED por orden.
	err := policy.CanAct(id, policy.ActionDelete, policy.Resource{Kind: policy.KindCategory})
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestCanAct_RolNoPermitido_Forbidden(t *testing.T) {
	err := policy.CanAct(identity(5, entity.RoleImporter), policy.ActionCreate, policy.Resource{Kind: policy.KindProduct})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCanAct_AccionSinRoles_Forbidden(t *testing.T) {
	err := policy.CanAct(identity(1, entity.RoleAdmin), policy.ActionDelete, policy.Resource{Kind: policy.KindUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad y bypass uniforme de admin
// ──────────────────────────────────────────────────────────────────────────────

func TestCanAct_ProveedorDueno_Permitido(t *testing.T) {
	p := &entity.Product{ID: 1, SupplierID: 9}
	assert.NoError(t, policy.CanAct(identity(9, entity.RoleSupplier), policy.ActionUpdate, policy.ProductResource(p)))
}

func TestCanAct_ProveedorAjeno_Forbidden(t *testing.T) {
	p := &entity.Product{ID: 1, SupplierID: 9}
	for _, action := range []policy.Action{policy.ActionUpdate, policy.ActionDelete} {
		err := policy.CanAct(identity(10, entity.RoleSupplier), action, policy.ProductResource(p))
		assert.ErrorIs(t, err, domain.ErrForbidden, "acción %s", action)
	}
}

func TestCanAct_AdminBypassUniforme(t *testing.T) {
	admin := identity(1, entity.RoleAdmin)
	p := &entity.Product{ID: 1, SupplierID: 9}
	c := &entity.Collaboration{ID: 2, ImporterID: 5, SupplierID: 9}

	assert.NoError(t, policy.CanAct(admin, policy.ActionUpdate, policy.ProductResource(p)))
	assert.NoError(t, policy.CanAct(admin, policy.ActionDelete, policy.ProductResource(p)))
	assert.NoError(t, policy.CanAct(admin, policy.ActionDelete, policy.CollaborationResource(c)))
	assert.NoError(t, policy.CanAct(admin, policy.ActionDelete, policy.Resource{Kind: policy.KindCategory}))
}

func TestCanAct_ColaboracionSoloPartes(t *testing.T) {
	c := &entity.Collaboration{ID: 2, ImporterID: 5, SupplierID: 9}
	res := policy.CollaborationResource(c)

	assert.NoError(t, policy.CanAct(identity(5, entity.RoleImporter), policy.ActionRead, res))
	assert.NoError(t, policy.CanAct(identity(9, entity.RoleSupplier), policy.ActionRead, res))
	assert.ErrorIs(t, policy.CanAct(identity(6, entity.RoleImporter), policy.ActionRead, res), domain.ErrForbidden)
	assert.ErrorIs(t, policy.CanAct(identity(8, entity.RoleSupplier), policy.ActionRead, res), domain.ErrForbidden)
	// El proveedor no puede borrar aunque sea parte.
	assert.ErrorIs(t, policy.CanAct(identity(9, entity.RoleSupplier), policy.ActionDelete, res), domain.ErrForbidden)
}

func TestCanAct_ImportadorLeeProducto_SinCampoDeDueno(t *testing.T) {
	// El producto no tiene dueño para el rol importador; la relación la valida la fachada.
	p := &entity.Product{ID: 1, SupplierID: 9}
	assert.NoError(t, policy.CanAct(identity(5, entity.RoleImporter), policy.ActionRead, policy.ProductResource(p)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Actores de transición
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Actores(t *testing.T) {
	c := &entity.Collaboration{ID: 2, ImporterID: 5, SupplierID: 9, State: entity.StateRequested}
	importer := identity(5, entity.RoleImporter)
	supplier := identity(9, entity.RoleSupplier)
	admin := identity(1, entity.RoleAdmin)

	tests := []struct {
		name string
		id   *policy.Identity
		to   entity.CollaborationState
		want error
	}{
		{"proveedor confirma", supplier, entity.StateActive, nil},
		{"importador no confirma", importer, entity.StateActive, domain.ErrForbidden},
		{"admin confirma", admin, entity.StateActive, nil},
		{"importador termina", importer, entity.StateTerminated, nil},
		{"proveedor rechaza", supplier, entity.StateTerminated, nil},
		{"importador vuelve a solicitar", importer, entity.StateRequested, nil},
		{"proveedor no vuelve a solicitar", supplier, entity.StateRequested, domain.ErrForbidden},
		{"tercero", identity(77, entity.RoleSupplier), entity.StateActive, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.CanTransition(tt.id, c, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
