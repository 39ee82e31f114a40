package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware guards the operator API with a static bearer token. The
// moderation surface itself authenticates through the chat platform; this
// only covers the machine-facing HTTP API.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates the middleware. An empty token disables auth,
// which is only acceptable in development.
func NewAuthMiddleware(token string) *AuthMiddleware {
	if token == "" {
		slog.Warn("API_TOKEN not set, operator API is unauthenticated")
	}
	return &AuthMiddleware{token: token}
}

// RequireToken validates the Authorization header.
func (m *AuthMiddleware) RequireToken(c fiber.Ctx) error {
	if m.token == "" {
		return c.Next()
	}

	header := c.Get("Authorization")
	presented, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(m.token)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return c.Next()
}
