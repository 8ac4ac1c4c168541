package handlers

import (
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Order *services.OrderService
}

type createOrderRequest struct {
	UserID string             `json:"user_id"`
	Items  []domain.OrderItem `json:"items"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "order.place.fail")
	}
	o, err := h.Order.Create(c.UserContext(), req.UserID, req.Items)
	if err != nil {
		return fail(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID.Hex(),
		"user_id":  o.UserID,
		"lines":    len(o.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": o.ID.Hex(), "status": o.Status})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	o, err := h.Order.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "order.get.fail", err)
	}
	return c.JSON(o)
}
