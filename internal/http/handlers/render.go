package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

// statusFor maps a business failure to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, services.ErrInsufficientFunds) {
		return fiber.StatusPaymentRequired
	}
	switch services.KindOf(err) {
	case services.KindValidation:
		return fiber.StatusBadRequest
	case services.KindUnauthorized:
		return fiber.StatusUnauthorized
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindExternal:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// fail writes a JSON error. Business failures carry their own message;
// anything else is logged and reported generically.
func fail(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, fields)
		return c.Status(status).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["reason"] = err.Error()
	applog.Info(c, action+".reject", fields)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// invalid rejects malformed input before it reaches a service.
func invalid(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}

// ErrorHandler is the app-wide handler for errors no route handled itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := "Something went wrong. Please try again."
	if code < fiber.StatusInternalServerError && fe != nil {
		msg = fe.Message
	}
	if wantsJSON(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func wantsJSON(c *fiber.Ctx) bool {
	p := c.Path()
	return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/admin/")
}
