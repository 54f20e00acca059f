package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type authForm struct {
	Mode     string `json:"mode" form:"mode"`
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /api/v1/auth
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var in authForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	mode := services.Mode(in.Mode)
	if mode != services.ModeLogin && mode != services.ModeSignup {
		return invalid(c, "mode")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth."+in.Mode+".fail", map[string]any{"reason": "bad_email_format"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email", "mode": mode})
	}
	if mode == services.ModeSignup {
		if _, ok := validate.Name(in.Name); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid name", "mode": mode})
		}
		if !validate.Password(in.Password) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "password must be 8-64 characters with upper, lower, digit and symbol",
				"mode":  mode,
			})
		}
	}

	sid := ensureSID(c)
	u, next, err := h.Auth.Authenticate(c.UserContext(), sid, mode, services.Credentials{
		Name: in.Name, Email: email, Password: in.Password,
	})
	if err != nil {
		log.Security(c, "auth."+string(mode)+".fail", map[string]any{"email": email, "reason": err.Error()})
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "mode": next})
	}

	c.Locals("user", u)
	log.Audit(c, "auth."+string(mode)+".success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"user": u, "mode": next})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrNotSignedIn.Msg})
	}
	return c.JSON(u)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c.UserContext(), c.Cookies(sidCookie)); err != nil {
		return fail(c, "auth.logout", err, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	log.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
