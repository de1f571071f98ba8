package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/saradnja-api/internal/application/auth"
	"github.com/jhoicas/saradnja-api/internal/application/collaboration"
	"github.com/jhoicas/saradnja-api/internal/application/usecase"
	"github.com/jhoicas/saradnja-api/internal/application/visibility"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/saradnja-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/saradnja-api/pkg/jwt"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testIssuer     = "saradnja-api-test"
	testExpMin     = 60
	testCookieName = "auth"
	testPassword   = "secret123"
)

type testServer struct {
	app    *fiber.App
	store  *memory.Store
	authUC *auth.AuthUseCase
}

// envelope sobre de respuesta genérico (éxito o error).
type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// newTestServer arma la aplicación completa sobre el store en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	}).WithHashCost(bcrypt.MinCost)

	app := apphttp.NewApp(apphttp.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(store.Users()),
		CategoryUC:     usecase.NewCategoryUseCase(store.Categories()),
		ProductUC:      usecase.NewProductUseCase(store.Products(), store.Visibility(), store.TxRunner()),
		Collaborations: collaboration.NewEngine(store.Collaborations(), store.TxRunner()),
		Visibility:     visibility.NewFacade(store.Visibility(), store.Products()),
		Cookie:         apphttp.CookieConfig{Name: testCookieName, MaxAge: time.Hour},
		AppName:        "saradnja-api-test",
	}, logger.Nop())
	return &testServer{app: app, store: store, authUC: authUC}
}

// addUser inserta un usuario activo con testPassword; el email se deriva del nombre.
func (s *testServer) addUser(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		FullName:     name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u
}

// tokenFor genera un JWT firmado para el usuario.
func tokenFor(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.Email, string(u.Role), testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// do ejecuta la petición con Bearer token opcional y decodifica el sobre.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	resp := s.raw(t, method, path, body, func(req *http.Request) {
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	})
	defer resp.Body.Close()
	return resp.StatusCode, decode(t, resp.Body)
}

func (s *testServer) raw(t *testing.T, method, path string, body any, prepare func(*http.Request)) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if str, ok := body.(string); ok {
			reader = strings.NewReader(str)
		} else {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if prepare != nil {
		prepare(req)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err, "app.Test no debe fallar")
	return resp
}

func decode(t *testing.T, r io.Reader) envelope {
	t.Helper()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "la respuesta debe ser JSON: %s", raw)
	return env
}

func into[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
