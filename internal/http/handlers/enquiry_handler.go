package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"avotrade/internal/domain"
	applog "avotrade/internal/log"
	"avotrade/internal/services"
	"avotrade/internal/validate"
)

type EnquiryHandler struct {
	Enquiries *services.EnquiryService
}

// POST /api/enquiries
func (h *EnquiryHandler) Create(c *fiber.Ctx) error {
	var in services.EnquiryInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "enquiry.create", err)
	}
	e, err := h.Enquiries.Submit(c.UserContext(), in)
	if err != nil {
		return fail(c, "enquiry.create", err)
	}
	applog.Info(c, "enquiry.create", map[string]any{"enquiry_id": e.ID, "type": e.Type})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "enquiry": e})
}

// GET /api/enquiries?limit=&status=&search=
func (h *EnquiryHandler) List(c *fiber.Ctx) error {
	f := domain.EnquiryFilter{
		Limit:  validate.Limit(c.Query("limit"), services.DefaultEnquiryLimit, services.MaxEnquiryLimit),
		Status: domain.EnquiryStatus(strings.ToLower(strings.TrimSpace(c.Query("status")))),
		Search: c.Query("search"),
	}
	list, err := h.Enquiries.List(c.UserContext(), f)
	if err != nil {
		return fail(c, "admin.enquiries.list", err)
	}
	return c.JSON(fiber.Map{"enquiries": list})
}

// GET /api/enquiries/:id
func (h *EnquiryHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, "admin.enquiries.get", badID())
	}
	e, err := h.Enquiries.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.enquiries.get", err)
	}
	return c.JSON(fiber.Map{"enquiry": e})
}

type statusBody struct {
	Status string `json:"status"`
}

// PATCH /api/enquiries/:id
func (h *EnquiryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, "admin.enquiries.update", badID())
	}
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, "admin.enquiries.update", err)
	}
	e, err := h.Enquiries.UpdateStatus(c.UserContext(), id, body.Status)
	if err != nil {
		return fail(c, "admin.enquiries.update", err)
	}
	applog.Audit(c, "admin.enquiries.update", map[string]any{"enquiry_id": id, "status": e.Status})
	return c.JSON(fiber.Map{"enquiry": e})
}

// DELETE /api/enquiries/:id
func (h *EnquiryHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, "admin.enquiries.delete", badID())
	}
	removed, err := h.Enquiries.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.enquiries.delete", err)
	}
	applog.Audit(c, "admin.enquiries.delete", map[string]any{"enquiry_id": id, "removed": removed})
	return c.SendStatus(fiber.StatusNoContent)
}
