package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	Health *services.HealthService
}

func (h *HealthHandler) DB(c *fiber.Ctx) error {
	res, err := h.Health.Check(c.UserContext())
	if err != nil {
		return fail(c, "health.db.fail", err)
	}
	return c.JSON(res)
}
