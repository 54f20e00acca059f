package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type AccountHandler struct {
	Account *services.AccountService
}

type messageForm struct {
	Text string `json:"text" form:"text"`
}

type ticketForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// GET /api/v1/orders (RequireUser)
func (h *AccountHandler) Orders(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	return c.JSON(fiber.Map{"orders": h.Account.OrderHistory(u.Email)})
}

// GET /api/v1/messages (RequireUser)
func (h *AccountHandler) Thread(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	return c.JSON(fiber.Map{"messages": h.Account.Thread(u.Email)})
}

// POST /api/v1/messages (RequireUser)
func (h *AccountHandler) Send(c *fiber.Ctx) error {
	var in messageForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	text, ok := validate.Text(in.Text, 2000)
	if !ok {
		return invalid(c, "text")
	}
	msg, err := h.Account.Send(c.UserContext(), currentUser(c), text)
	if err != nil {
		return fail(c, "messages.send", err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// POST /api/v1/tickets
func (h *AccountHandler) SubmitTicket(c *fiber.Ctx) error {
	var in ticketForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		return invalid(c, "name")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return invalid(c, "email")
	}
	msg, ok := validate.Text(in.Message, 5000)
	if !ok {
		return invalid(c, "message")
	}
	t, err := h.Account.SubmitTicket(c.UserContext(), name, email, msg)
	if err != nil {
		return fail(c, "tickets.submit", err, nil)
	}
	applog.Audit(c, "tickets.submit", map[string]any{"ticket_id": t.ID})
	return c.Status(fiber.StatusCreated).JSON(t)
}
