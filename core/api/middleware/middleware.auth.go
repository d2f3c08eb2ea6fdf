package middleware

import (
	"strings"

	"github.com/joaobaungartner/goncalves-backend/core/api/services"
	"github.com/joaobaungartner/goncalves-backend/core/auth"
	"github.com/joaobaungartner/goncalves-backend/core/common"

	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware valida o token Bearer e carrega o usuário no
// contexto da requisição.
type AuthMiddleware struct {
	issuer      *auth.TokenIssuer
	userService *services.UserService
}

// NewAuthMiddleware creates the bearer-token middleware.
func NewAuthMiddleware(issuer *auth.TokenIssuer, userService *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, userService: userService}
}

// extractToken separa o token do header Authorization ("Bearer ...").
func extractToken(c fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth bloqueia a requisição sem um token válido. O username
// do token precisa existir na base; depois fica em Locals("username").
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return common.ErrTokenMissing
	}

	username, err := m.issuer.Parse(token)
	if err != nil {
		return err
	}

	if _, err := m.userService.GetByUsername(c.Context(), username); err != nil {
		return common.ErrTokenInvalid
	}

	c.Locals("username", username)
	return c.Next()
}
