package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
)

// LocalAuth key de Locals con el *auth.AuthContext de la petición.
const LocalAuth = "auth_context"

// Authenticator resuelve el token bearer a la cuenta autenticada.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*auth.AuthContext, error)
}

// AuthMiddleware valida el Bearer Token y deja el AuthContext en c.Locals.
// Sin header o con otro esquema se responde como no autenticado.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actx, err := authn.Authenticate(c.UserContext(), bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return err
		}
		c.Locals(LocalAuth, actx)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetAuthContext devuelve la identidad autenticada (después del middleware de auth).
func GetAuthContext(c *fiber.Ctx) *auth.AuthContext {
	actx, _ := c.Locals(LocalAuth).(*auth.AuthContext)
	return actx
}
