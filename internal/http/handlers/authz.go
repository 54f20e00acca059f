package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
)

const (
	adminCookie = "admin_token"
	sidCookie   = "sid"
)

// ensureSID returns the client's session id, issuing a new cookie when absent.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sidCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// currentUser is the user AttachUser resolved for this request, or nil.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// AttachUser exposes the user signed in under the request's sid cookie to
// handlers, templates and logs.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u := auth.Current(c.Cookies(sidCookie)); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

// RequireUser enforces that the request's sid is signed in.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := auth.Current(c.Cookies(sidCookie))
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrNotSignedIn.Msg})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdmin(admin *services.AdminAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(adminCookie)
		if !admin.Valid(tok) {
			applog.Security(c, "access.denied.admin", map[string]any{"has_token": tok != ""})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
