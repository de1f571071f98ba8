package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/saradnja-api/internal/application/collaboration"
	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/saradnja-api/pkg/config"
)

// Estos tests usan una base real. TEST_DATABASE_URL debe apuntar a una base descartable:
// cada test borra el schema public y vuelve a migrar.
const testDatabaseURLEnv = "TEST_DATABASE_URL"

type pgEnv struct {
	ctx    context.Context
	pool   *pgxpool.Pool
	engine *collaboration.Engine
	users  *postgres.UserRepo
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s no definida; se omiten los tests de integración con PostgreSQL", testDatabaseURLEnv)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))

	return &pgEnv{
		ctx:    ctx,
		pool:   pool,
		engine: collaboration.NewEngine(postgres.NewCollaborationRepository(pool), postgres.NewTxRunner(pool)),
		users:  postgres.NewUserRepository(pool),
	}
}

func (e *pgEnv) addUser(t *testing.T, name string, role entity.Role) *policy.Identity {
	t.Helper()
	u := &entity.User{FullName: name, Email: name + "@example.com", PasswordHash: "x", Role: role, Active: true}
	require.NoError(t, e.users.Create(e.ctx, u))
	return &policy.Identity{UserID: u.ID, Role: u.Role, Active: true}
}

func (e *pgEnv) addProduct(t *testing.T, code string, supplierID int64) *entity.Product {
	t.Helper()
	cat := &entity.Category{Name: "cat-" + code}
	require.NoError(t, postgres.NewCategoryRepository(e.pool).Create(e.ctx, cat))
	p := &entity.Product{
		Code: code, Name: "Producto " + code, ImageRef: code + ".png",
		Width: 1, Height: 2, Length: 3, Price: decimal.RequireFromString("10.50"),
		CategoryID: cat.ID, SupplierID: supplierID,
	}
	require.NoError(t, postgres.NewProductRepository(e.pool).Create(e.ctx, p))
	return p
}

func TestPostgres_CicloCompletoDeUnPar(t *testing.T) {
	e := setupPostgres(t)
	importer := e.addUser(t, "uvoznik", entity.RoleImporter)
	supplier := e.addUser(t, "dobavljac", entity.RoleSupplier)
	in := dto.CreateCollaborationRequest{SupplierID: supplier.UserID}

	first, err := e.engine.Request(e.ctx, importer, in)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.Collaboration.Pending)
	assert.False(t, first.Collaboration.Status)

	_, err = e.engine.Request(e.ctx, importer, in)
	assert.ErrorIs(t, err, domain.ErrRequestAlreadySent)

	active, err := e.engine.Confirm(e.ctx, supplier, first.Collaboration.ID)
	require.NoError(t, err)
	assert.False(t, active.Pending)
	assert.True(t, active.Status)

	_, err = e.engine.Request(e.ctx, importer, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyActive)

	terminated, err := e.engine.Terminate(e.ctx, importer, first.Collaboration.ID)
	require.NoError(t, err)
	assert.False(t, terminated.Pending)
	assert.False(t, terminated.Status)

	reopened, err := e.engine.Request(e.ctx, importer, in)
	require.NoError(t, err)
	assert.False(t, reopened.Created)
	assert.Equal(t, first.Collaboration.ID, reopened.Collaboration.ID, "se reutiliza la fila del par")
	assert.True(t, reopened.Collaboration.Pending)
	assert.False(t, reopened.Collaboration.Status)
}

func TestPostgres_RequestConcurrenteCreaUnaSolaFila(t *testing.T) {
	e := setupPostgres(t)
	importer := e.addUser(t, "uvoznik", entity.RoleImporter)
	supplier := e.addUser(t, "dobavljac", entity.RoleSupplier)
	const n = 16

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
		other    []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.engine.Request(e.ctx, importer, dto.CreateCollaborationRequest{SupplierID: supplier.UserID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrRequestAlreadySent):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, rejected)

	var rows int
	require.NoError(t, e.pool.QueryRow(e.ctx,
		`SELECT count(*) FROM saradnja WHERE id_uvoznik = $1 AND id_dobavljac = $2`,
		importer.UserID, supplier.UserID).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestPostgres_Visibilidad(t *testing.T) {
	e := setupPostgres(t)
	vis := postgres.NewVisibilityRepository(e.pool)
	importer := e.addUser(t, "uvoznik", entity.RoleImporter)
	libre := e.addUser(t, "libre", entity.RoleSupplier)
	pendiente := e.addUser(t, "pendiente", entity.RoleSupplier)
	activo := e.addUser(t, "activo", entity.RoleSupplier)
	inactivo := e.addUser(t, "inactivo", entity.RoleSupplier)
	_, err := e.users.SetActive(e.ctx, inactivo.UserID, false)
	require.NoError(t, err)

	_, err = e.engine.Request(e.ctx, importer, dto.CreateCollaborationRequest{SupplierID: pendiente.UserID})
	require.NoError(t, err)
	req, err := e.engine.Request(e.ctx, importer, dto.CreateCollaborationRequest{SupplierID: activo.UserID})
	require.NoError(t, err)
	_, err = e.engine.Confirm(e.ctx, activo, req.Collaboration.ID)
	require.NoError(t, err)

	own := e.addProduct(t, "A-1", activo.UserID)
	e.addProduct(t, "P-1", pendiente.UserID)
	e.addProduct(t, "L-1", libre.UserID)

	available, err := vis.AvailableSuppliers(e.ctx, importer.UserID)
	require.NoError(t, err)
	require.Len(t, available, 1, "ni pendientes, ni activos, ni deshabilitados")
	assert.Equal(t, libre.UserID, available[0].SupplierID)

	mine, err := vis.MySuppliers(e.ctx, importer.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, activo.UserID, mine[0].SupplierID)
	assert.Equal(t, req.Collaboration.ID, mine[0].CollaborationID)

	products, err := vis.ProductsOfMySuppliers(e.ctx, importer.UserID, entity.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, own.ID, products[0].ID)

	ok, err := vis.HasActiveCollaboration(e.ctx, importer.UserID, activo.UserID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = vis.HasActiveCollaboration(e.ctx, importer.UserID, pendiente.UserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgres_BorrarColaboracionConFactura(t *testing.T) {
	e := setupPostgres(t)
	admin := e.addUser(t, "admin", entity.RoleAdmin)
	importer := e.addUser(t, "uvoznik", entity.RoleImporter)
	supplier := e.addUser(t, "dobavljac", entity.RoleSupplier)

	req, err := e.engine.Request(e.ctx, importer, dto.CreateCollaborationRequest{SupplierID: supplier.UserID})
	require.NoError(t, err)
	id := req.Collaboration.ID
	_, err = e.pool.Exec(e.ctx, `INSERT INTO faktura (troskovi_carine, id_saradnja) VALUES (100, $1)`, id)
	require.NoError(t, err)

	err = e.engine.Delete(e.ctx, admin, id)
	assert.ErrorIs(t, err, domain.ErrConflict)

	still, err := postgres.NewCollaborationRepository(e.pool).GetByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, still, "la fila sigue presente")

	_, err = e.pool.Exec(e.ctx, `DELETE FROM faktura WHERE id_saradnja = $1`, id)
	require.NoError(t, err)
	require.NoError(t, e.engine.Delete(e.ctx, admin, id))
}

func TestPostgres_RestriccionesDeBorradoDelCatalogo(t *testing.T) {
	e := setupPostgres(t)
	supplier := e.addUser(t, "dobavljac", entity.RoleSupplier)
	p := e.addProduct(t, "X-1", supplier.UserID)

	err := postgres.NewCategoryRepository(e.pool).Delete(e.ctx, p.CategoryID)
	assert.ErrorIs(t, err, domain.ErrConflict, "la categoría tiene productos")

	var containerID int64
	require.NoError(t, e.pool.QueryRow(e.ctx,
		`INSERT INTO kontejner (max_zapremina, cena_kontejnera) VALUES (10, 500) RETURNING id_kontejner`).Scan(&containerID))
	_, err = e.pool.Exec(e.ctx,
		`INSERT INTO stavka_kontejnera (id_kontejner, id_proizvod, kolicina, iznos_stavke) VALUES ($1, $2, 1, 10)`,
		containerID, p.ID)
	require.NoError(t, err)

	products := postgres.NewProductRepository(e.pool)
	assert.ErrorIs(t, products.Delete(e.ctx, p.ID), domain.ErrConflict)
	got, err := products.GetByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	dup := &entity.Category{Name: fmt.Sprintf("cat-%s", p.Code)}
	assert.ErrorIs(t, postgres.NewCategoryRepository(e.pool).Create(e.ctx, dup), domain.ErrDuplicate)
}
