package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"avotrade/internal/log"
	"avotrade/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, "auth.login", err)
	}
	tok, exp, err := h.Auth.Login(c.UserContext(), body.Username, body.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"username": body.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if err != nil {
		return fail(c, "auth.login", err)
	}
	log.Audit(c, "auth.login.ok", map[string]any{"username": body.Username})
	return c.JSON(fiber.Map{"token": tok, "expiresAt": exp})
}
