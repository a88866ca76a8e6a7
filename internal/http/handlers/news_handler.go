package handlers

import (
	"github.com/gofiber/fiber/v2"

	"avotrade/internal/search"
	"avotrade/internal/services"
)

type NewsHandler struct {
	News *services.NewsService
}

// GET /api/market/news?search=
func (h *NewsHandler) List(c *fiber.Ctx) error {
	items, err := h.News.List(c.UserContext(), c.Query(search.Param))
	if err != nil {
		return fail(c, "news.list", err)
	}
	return c.JSON(fiber.Map{"news": items})
}
