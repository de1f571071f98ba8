package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	apphttp "github.com/jhoicas/saradnja-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/saradnja-api/pkg/jwt"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para verificar la sesión y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(s *testServer, allowedRoles ...entity.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/protected",
		apphttp.AuthMiddleware(s.authUC, testCookieName),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// doProtected ejecuta GET /protected con el header Authorization indicado.
func doProtected(t *testing.T, app *fiber.App, authHeader string, cookie *http.Cookie) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test no debe fallar")
	defer resp.Body.Close()
	return resp.StatusCode, decode(t, resp.Body)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.addUser(t, "Admin Uno", entity.RoleAdmin)
	app := buildTestApp(s, entity.RoleAdmin)

	status, env := doProtected(t, app, "Bearer "+tokenFor(t, admin), nil)
	assert.Equal(t, fiber.StatusOK, status, "ADMIN debe acceder a ruta admin")
	assert.True(t, env.OK)
}

func TestRequireRole_ImportadorEnRutaProveedor_Forbidden(t *testing.T) {
	s := newTestServer(t)
	importer := s.addUser(t, "Uvoznik Uno", entity.RoleImporter)
	app := buildTestApp(s, entity.RoleSupplier)

	status, env := doProtected(t, app, "Bearer "+tokenFor(t, importer), nil)
	assert.Equal(t, fiber.StatusForbidden, status, "IMPORTER no debe acceder a ruta de proveedor")
	assert.False(t, env.OK)
	assert.Equal(t, apphttp.CodeForbidden, env.Error)
}

func TestRequireRole_VariosRolesPermitidos(t *testing.T) {
	s := newTestServer(t)
	supplier := s.addUser(t, "Dobavljac Uno", entity.RoleSupplier)
	app := buildTestApp(s, entity.RoleAdmin, entity.RoleSupplier)

	status, _ := doProtected(t, app, "Bearer "+tokenFor(t, supplier), nil)
	assert.Equal(t, fiber.StatusOK, status, "SUPPLIER está en la lista de roles permitidos")
}

func TestRequireRole_UsuarioDeshabilitado_AntesQueRol(t *testing.T) {
	s := newTestServer(t)
	importer := s.addUser(t, "Uvoznik Uno", entity.RoleImporter)
	_, err := s.store.Users().SetActive(context.Background(), importer.ID, false)
	require.NoError(t, err)
	app := buildTestApp(s, entity.RoleSupplier)

	status, env := doProtected(t, app, "Bearer "+tokenFor(t, importer), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, apphttp.CodeUserDisabled, env.Error, "inactivo se evalúa antes que el rol")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	app := buildTestApp(s, entity.RoleAdmin)

	status, env := doProtected(t, app, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status, "sin token debe ser 401")
	assert.Equal(t, apphttp.CodeUnauthorized, env.Error)
}

func TestAuthMiddleware_TokenMalFormado_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	app := buildTestApp(s, entity.RoleAdmin)

	for _, header := range []string{"Bearer esto.no.es.jwt", "Basic dXNlcjpwYXNz", "Bearer "} {
		status, env := doProtected(t, app, header, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, "header %q", header)
		assert.Equal(t, apphttp.CodeUnauthorized, env.Error)
	}
}

func TestAuthMiddleware_UsuarioInexistente_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	app := buildTestApp(s, entity.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, 999, "ghost@example.com", string(entity.RoleAdmin), testIssuer, testExpMin)
	require.NoError(t, err)

	status, _ := doProtected(t, app, "Bearer "+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status, "el token de un usuario borrado no abre sesión")
}

func TestAuthMiddleware_OtroSecreto_Unauthorized(t *testing.T) {
	s := newTestServer(t)
	admin := s.addUser(t, "Admin Uno", entity.RoleAdmin)
	app := buildTestApp(s, entity.RoleAdmin)
	tok, err := pkgjwt.Generate("otro-secreto", admin.ID, admin.Email, string(admin.Role), testIssuer, testExpMin)
	require.NoError(t, err)

	status, _ := doProtected(t, app, "Bearer "+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuthMiddleware_RolSeRecargaDelStore(t *testing.T) {
	s := newTestServer(t)
	supplier := s.addUser(t, "Dobavljac Uno", entity.RoleSupplier)
	app := buildTestApp(s, entity.RoleAdmin)
	// El claim dice ADMIN pero el usuario guardado es SUPPLIER.
	tok, err := pkgjwt.Generate(testJWTSecret, supplier.ID, supplier.Email, string(entity.RoleAdmin), testIssuer, testExpMin)
	require.NoError(t, err)

	status, env := doProtected(t, app, "Bearer "+tok, nil)
	assert.Equal(t, fiber.StatusForbidden, status, "el rol del claim no se confía")
	assert.Equal(t, apphttp.CodeForbidden, env.Error)
}

func TestAuthMiddleware_CookieDeSesion(t *testing.T) {
	s := newTestServer(t)
	supplier := s.addUser(t, "Dobavljac Uno", entity.RoleSupplier)
	app := buildTestApp(s, entity.RoleSupplier)

	status, env := doProtected(t, app, "", &http.Cookie{Name: testCookieName, Value: tokenFor(t, supplier)})
	assert.Equal(t, fiber.StatusOK, status, "la cookie basta para autenticar")
	assert.True(t, env.OK)
}
