package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/saradnja-api/internal/application/auth"
	"github.com/jhoicas/saradnja-api/internal/application/dto"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/memory"
	"github.com/jhoicas/saradnja-api/pkg/jwt"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "saradnja-test"}

func newAuth(s *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s.Users(), testJWT).WithHashCost(bcrypt.MinCost)
}

func TestRegister_DefaultImporterYEmailNormalizado(t *testing.T) {
	s := memory.NewStore()
	uc := newAuth(s)

	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		FullName: " Ana Anić ", Email: "  Ana@Example.COM ", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana Anić", u.FullName)
	assert.Equal(t, string(entity.RoleImporter), u.Role)
	assert.True(t, u.Active)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{
		FullName: "Otra", Email: "ANA@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newAuth(memory.NewStore())
	cases := map[string]dto.RegisterRequest{
		"sin nombre":      {Email: "a@b.com", Password: "secret1"},
		"email inválido":  {FullName: "A", Email: "no-es-email", Password: "secret1"},
		"password corta":  {FullName: "A", Email: "a@b.com", Password: "12345"},
		"rol desconocido": {FullName: "A", Email: "a@b.com", Password: "secret1", Role: "GUEST"},
		"admin no":        {FullName: "A", Email: "a@b.com", Password: "secret1", Role: "ADMIN"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RegisterUser(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin_YAuthenticate(t *testing.T) {
	s := memory.NewStore()
	uc := newAuth(s)
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{FullName: "Dob", Email: "dob@example.com", Password: "secret1", Role: "SUPPLIER"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "dob@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: " DOB@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, res.User.ID)

	claims, err := jwt.Parse(testJWT.Secret, testJWT.Issuer, res.Token)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleSupplier), claims.Role)

	id, user, err := uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id.UserID)
	assert.Equal(t, entity.RoleSupplier, id.Role)
	assert.True(t, id.Active)
	assert.Equal(t, "dob@example.com", user.Email)

	// El estado se recarga: un usuario deshabilitado conserva su token pero llega inactivo.
	_, err = s.Users().SetActive(ctx, reg.ID, false)
	require.NoError(t, err)
	id, _, err = uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, id.Active)

	_, err = uc.Me(ctx, id)
	assert.ErrorIs(t, err, domain.ErrUserDisabled)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "dob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUserDisabled)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	uc := newAuth(memory.NewStore())
	ctx := context.Background()

	_, _, err := uc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, _, err = uc.Authenticate(ctx, "no.es.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Token válido de un usuario que no existe.
	tok, err := jwt.Generate(testJWT.Secret, 77, "x@example.com", "ADMIN", testJWT.Issuer, 5)
	require.NoError(t, err)
	_, _, err = uc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
