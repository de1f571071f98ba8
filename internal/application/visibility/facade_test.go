package visibility_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/application/visibility"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type world struct {
	ctx        context.Context
	store      *memory.Store
	facade     *visibility.Facade
	category   int64
	importers  []*policy.Identity
	suppliers  []*policy.Identity
	productsOf map[int64][]int64 // proveedor -> productos
}

// newWorld 2 importadores, 3 proveedores con 2 productos cada uno y un proveedor deshabilitado.
func newWorld(t *testing.T) *world {
	t.Helper()
	s := memory.NewStore()
	w := &world{
		ctx:        context.Background(),
		store:      s,
		facade:     visibility.NewFacade(s.Visibility(), s.Products()),
		productsOf: map[int64][]int64{},
	}
	cat := &entity.Category{Name: "Alati"}
	require.NoError(t, s.Categories().Create(w.ctx, cat))
	w.category = cat.ID

	for _, name := range []string{"Uvoznik A", "Uvoznik B"} {
		w.importers = append(w.importers, w.addUser(t, name, entity.RoleImporter, true))
	}
	for _, name := range []string{"Dobavljac C", "Dobavljac A", "Dobavljac B"} {
		sup := w.addUser(t, name, entity.RoleSupplier, true)
		w.suppliers = append(w.suppliers, sup)
		for i := 0; i < 2; i++ {
			p := &entity.Product{
				Code:       name + "-" + string(rune('0'+i)),
				Name:       "Proizvod " + name,
				Price:      decimal.NewFromInt(10),
				CategoryID: cat.ID,
				SupplierID: sup.UserID,
			}
			require.NoError(t, s.Products().Create(w.ctx, p))
			w.productsOf[sup.UserID] = append(w.productsOf[sup.UserID], p.ID)
		}
	}
	w.addUser(t, "Dobavljac Deshabilitado", entity.RoleSupplier, false)
	return w
}

func (w *world) addUser(t *testing.T, name string, role entity.Role, active bool) *policy.Identity {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	u := &entity.User{FullName: name, Email: email, Role: role, Active: active}
	require.NoError(t, w.store.Users().Create(w.ctx, u))
	return &policy.Identity{UserID: u.ID, Role: role, Active: active}
}

// setState lleva la colaboración del par al estado indicado usando el repositorio.
func (w *world) setState(t *testing.T, importer, supplier *policy.Identity, state entity.CollaborationState) {
	t.Helper()
	repo := w.store.Collaborations()
	c, _, err := repo.Request(w.ctx, importer.UserID, supplier.UserID)
	if err != nil {
		c, err = repo.GetByPair(w.ctx, importer.UserID, supplier.UserID)
		require.NoError(t, err)
	}
	if c.State != state {
		_, err = repo.CompareAndSetState(w.ctx, c.ID, c.State, state)
		require.NoError(t, err)
	}
}

func supplierIDs[T any](list []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(list))
	for _, v := range list {
		out = append(out, id(v))
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes de visibilidad y disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestFacade_InvariantesPorEstado(t *testing.T) {
	w := newWorld(t)
	imp := w.importers[0]
	// suppliers[0] REQUESTED, suppliers[1] ACTIVE, suppliers[2] TERMINATED.
	w.setState(t, imp, w.suppliers[0], entity.StateRequested)
	w.setState(t, imp, w.suppliers[1], entity.StateActive)
	w.setState(t, imp, w.suppliers[2], entity.StateTerminated)

	available, err := w.facade.AvailableSuppliers(w.ctx, imp)
	require.NoError(t, err)
	assert.Equal(t, []int64{w.suppliers[2].UserID},
		supplierIDs(available, func(s dto.SupplierResponse) int64 { return s.SupplierID }),
		"solo el terminado está disponible; el deshabilitado nunca")

	mine, err := w.facade.MySuppliers(w.ctx, imp)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, w.suppliers[1].UserID, mine[0].SupplierID)
	assert.True(t, mine[0].Status)

	products, err := w.facade.ProductsOfMySuppliers(w.ctx, imp, entity.ProductFilter{})
	require.NoError(t, err)
	var got []int64
	for _, p := range products {
		got = append(got, p.ID)
		assert.Equal(t, w.suppliers[1].UserID, p.SupplierID)
		assert.Equal(t, "Alati", p.CategoryName)
		assert.Equal(t, "Dobavljac A", p.SupplierName)
	}
	assert.ElementsMatch(t, w.productsOf[w.suppliers[1].UserID], got)

	// El otro importador no ve nada y tiene a todos los proveedores activos disponibles.
	other := w.importers[1]
	products, err = w.facade.ProductsOfMySuppliers(w.ctx, other, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)
	available, err = w.facade.AvailableSuppliers(w.ctx, other)
	require.NoError(t, err)
	require.Len(t, available, 3)
	assert.Equal(t, "Dobavljac A", available[0].FullName, "ordenado por nombre")
}

func TestFacade_FiltrosDeProductos(t *testing.T) {
	w := newWorld(t)
	imp := w.importers[0]
	w.setState(t, imp, w.suppliers[0], entity.StateActive)
	w.setState(t, imp, w.suppliers[1], entity.StateActive)

	all, err := w.facade.ProductsOfMySuppliers(w.ctx, imp, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	one, err := w.facade.ProductsOfMySuppliers(w.ctx, imp, entity.ProductFilter{SupplierID: w.suppliers[0].UserID})
	require.NoError(t, err)
	assert.Len(t, one, 2)

	// Filtrar por un proveedor sin colaboración activa no filtra fuera del join.
	none, err := w.facade.ProductsOfMySuppliers(w.ctx, imp, entity.ProductFilter{SupplierID: w.suppliers[2].UserID})
	require.NoError(t, err)
	assert.Empty(t, none)

	byCategory, err := w.facade.ProductsOfMySuppliers(w.ctx, imp, entity.ProductFilter{CategoryID: w.category + 100})
	require.NoError(t, err)
	assert.Empty(t, byCategory)
}

func TestFacade_ProductsOfSupplierIfCollaborating(t *testing.T) {
	w := newWorld(t)
	imp := w.importers[0]
	sup := w.suppliers[0]

	_, err := w.facade.ProductsOfSupplierIfCollaborating(w.ctx, imp, sup.UserID)
	assert.ErrorIs(t, err, domain.ErrNotCollaborating)

	w.setState(t, imp, sup, entity.StateRequested)
	_, err = w.facade.ProductsOfSupplierIfCollaborating(w.ctx, imp, sup.UserID)
	assert.ErrorIs(t, err, domain.ErrNotCollaborating, "REQUESTED no da acceso")

	w.setState(t, imp, sup, entity.StateActive)
	list, err := w.facade.ProductsOfSupplierIfCollaborating(w.ctx, imp, sup.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = w.facade.ProductsOfSupplierIfCollaborating(w.ctx, imp, 0)
	assert.ErrorIs(t, err, domain.ErrBadID)
}

func TestFacade_SoloImportador(t *testing.T) {
	w := newWorld(t)
	_, err := w.facade.MySuppliers(w.ctx, w.suppliers[0])
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = w.facade.AvailableSuppliers(w.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	disabled := &policy.Identity{UserID: w.importers[0].UserID, Role: entity.RoleImporter, Active: false}
	_, err = w.facade.ProductsOfMySuppliers(w.ctx, disabled, entity.ProductFilter{})
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestFacade_SupplierProducts(t *testing.T) {
	w := newWorld(t)
	sup := w.suppliers[0]
	list, err := w.facade.SupplierProducts(w.ctx, sup, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, p := range list {
		assert.Equal(t, sup.UserID, p.SupplierID)
	}

	_, err = w.facade.SupplierProducts(w.ctx, w.importers[0], 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
