package handlers

import (
	"errors"

	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

func statusFor(k services.Kind) int {
	switch k {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindAuth:
		return fiber.StatusUnauthorized
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a JSON error body. Internal errors are logged and
// replaced by a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	kind := services.KindOf(err)
	status := statusFor(kind)
	c.Status(status)

	msg := err.Error()
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	switch kind {
	case services.KindInternal:
		applog.Error(c, action, err, nil)
		msg = "Something went wrong. Please try again."
	case services.KindUnavailable:
		applog.Error(c, action, err, nil)
	default:
		applog.Security(c, action, map[string]any{"reason": kind.String(), "error": msg})
	}
	return c.JSON(fiber.Map{"error": msg})
}

// badBody answers a request whose JSON body could not be decoded.
func badBody(c *fiber.Ctx, action string) error {
	applog.Security(c, action, map[string]any{"reason": "bad_body"})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
}
