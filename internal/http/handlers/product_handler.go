package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "avotrade/internal/log"
	"avotrade/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?category=&search=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext(), c.Query("category"), c.Query("search"))
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// GET /api/products/:slug
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(fiber.Map{"product": p})
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "admin.products.create", err)
	}
	p, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.products.create", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "slug": p.Slug})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, "admin.products.delete", badID())
	}
	removed, err := h.Catalog.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.products.delete", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id, "removed": removed})
	return c.SendStatus(fiber.StatusNoContent)
}
