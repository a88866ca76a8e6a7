package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"avotrade/internal/domain"
	applog "avotrade/internal/log"
	"avotrade/internal/services"
)

// RequireAdmin only lets through requests carrying a valid operator bearer token.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || strings.TrimSpace(tok) == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "missing_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		claims, err := auth.Verify(strings.TrimSpace(tok))
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "invalid_token"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		if claims.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "role", "user": claims.Username})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
		c.Locals("user_id", claims.UserID)
		c.Locals("claims", claims)
		return c.Next()
	}
}
