package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/policy"
)

// Locals keys para la identidad resuelta en Fiber.
const (
	LocalIdentity = "identity"
	LocalUser     = "user"
)

// SessionVerifier resuelve un token de sesión a la identidad actual del usuario.
type SessionVerifier interface {
	Authenticate(ctx context.Context, token string) (*policy.Identity, *entity.User, error)
}

// AuthMiddleware toma el token de la cookie de sesión o de "Authorization: Bearer", lo verifica
// y deja la identidad en c.Locals. Sin token o con token inválido responde UNAUTHORIZED.
// Un usuario deshabilitado pasa: la política lo rechaza con USER_DISABLED.
func AuthMiddleware(verifier SessionVerifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c, cookieName)
		if err != nil {
			return err
		}
		id, user, err := verifier.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, id)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, error) {
	if cookieName != "" {
		if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
			return tok, nil
		}
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", domain.ErrUnauthorized
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrUnauthorized
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", domain.ErrUnauthorized
	}
	return tok, nil
}

// RequireRole corta la petición si la identidad no tiene alguno de los roles indicados.
// Respeta el orden de la política: primero sesión, luego usuario activo, luego rol.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id == nil {
			return domain.ErrUnauthorized
		}
		if !id.Active {
			return domain.ErrUserDisabled
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return domain.ErrForbidden
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) *policy.Identity {
	id, _ := c.Locals(LocalIdentity).(*policy.Identity)
	return id
}

// GetRole devuelve el rol de la identidad, o vacío sin sesión.
func GetRole(c *fiber.Ctx) entity.Role {
	if id := GetIdentity(c); id != nil {
		return id.Role
	}
	return ""
}
