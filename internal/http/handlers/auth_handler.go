package handlers

import (
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID.Hex(), Email: u.Email, Name: u.Name}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "auth.register.fail")
	}
	u, err := h.Auth.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return fail(c, "auth.register.fail", err)
	}
	applog.Audit(c, "auth.register.success", map[string]any{"user_id": u.ID.Hex()})
	return c.JSON(toUserResponse(u))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "auth.login.fail")
	}
	sess, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, "auth.login.fail", err)
	}
	applog.Audit(c, "auth.login.success", nil)
	return c.JSON(sess)
}

// Me returns the user behind the bearer token. RequireToken must run first.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return fail(c, "auth.me.fail", services.ErrInvalidToken)
	}
	return c.JSON(toUserResponse(u))
}
