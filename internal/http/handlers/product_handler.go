package handlers

import (
	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "product.create.fail")
	}
	p, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "product.create.fail", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID.Hex()})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	items, err := h.Catalog.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, "product.list.fail", err)
	}
	return c.JSON(items)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "product.get.fail", err)
	}
	return c.JSON(p)
}
