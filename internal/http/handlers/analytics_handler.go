package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"avotrade/internal/domain"
	"avotrade/internal/services"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

type visitBody struct {
	Path      string  `json:"path"`
	UserAgent *string `json:"userAgent"`
}

// POST /api/track-visit and /api/analytics/visit
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var body visitBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, "analytics.visit", err)
	}
	if err := h.Analytics.Track(c.UserContext(), body.Path, body.UserAgent, c.Get(fiber.HeaderUserAgent)); err != nil {
		return fail(c, "analytics.visit", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/analytics/stats?days=
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	days := services.DefaultStatsDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fail(c, "admin.analytics.stats", domain.Invalid("days", "must be between 1 and 365"))
		}
		days = n
	}
	st, err := h.Analytics.Stats(c.UserContext(), days)
	if err != nil {
		return fail(c, "admin.analytics.stats", err)
	}
	return c.JSON(st)
}
