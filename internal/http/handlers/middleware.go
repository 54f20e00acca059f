package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "pixelmart/internal/log"
	"pixelmart/web"
)

// AppConfig is the fiber configuration every storefront app runs with.
// Immutable copies request values (params, cookies, form fields) out of
// fasthttp's reused buffers; handlers store them in long-lived state.
func AppConfig() fiber.Config {
	return fiber.Config{
		Immutable:    true,
		Views:        web.Engine(),
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	}
}

// Install adds the global middleware chain: request ids, access log,
// security headers, a per-client rate limit and CSRF protection.
func Install(app *fiber.App, accessLog bool) {
	app.Use(requestid.New())
	if accessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/metrics" || p == "/healthz" || strings.HasPrefix(p, "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"has_header": c.Get("X-Csrf-Token") != ""})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
		},
	}))
}
