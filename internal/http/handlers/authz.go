package handlers

import (
	"strings"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireToken resolves "Authorization: Bearer <token>" to a user and stores
// it in Locals("user").
func RequireToken(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return fail(c, "access.denied.token", services.ErrInvalidToken)
		}
		u, err := auth.CurrentUser(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return fail(c, "access.denied.token", err)
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID.Hex())
		return c.Next()
	}
}
