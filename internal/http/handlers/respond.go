package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"avotrade/internal/domain"
	applog "avotrade/internal/log"
	"avotrade/internal/validate"
)

// fail maps a service error onto the API error surface. Only unexpected
// failures are logged as errors; their details never reach the client.
func fail(c *fiber.Ctx, action string, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "fields": ve.Fields})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a record with this name already exists"})
	}
	applog.Error(c, action+".fail", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}

func badBody(c *fiber.Ctx, action string, err error) error {
	applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": "bad_body", "err": err.Error()})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request body must be valid JSON"})
}

func paramID(c *fiber.Ctx) (int64, bool) {
	return validate.ID(c.Params("id"))
}

func badID() error { return domain.Invalid("id", "must be a positive integer") }

// maxBody rejects request bodies larger than n bytes on routes that never need more.
func maxBody(n int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(c.Body()) > n {
			applog.Security(c, "request.body.too_large", map[string]any{"bytes": len(c.Body()), "max": n})
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "request body too large"})
		}
		return c.Next()
	}
}
