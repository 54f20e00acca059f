package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type AdminHandler struct {
	Auth  *services.AdminAuth
	Admin *services.AdminService
}

type adminLoginForm struct {
	Secret string `json:"secret" form:"secret"`
}

type statusForm struct {
	Status string `json:"status" form:"status"`
}

type promoCreateForm struct {
	Code     string  `json:"code" form:"code"`
	Discount float64 `json:"discount" form:"discount"`
}

type balanceForm struct {
	Balance float64 `json:"balance" form:"balance"`
}

type replyForm struct {
	Recipient string `json:"recipient" form:"recipient"`
	Text      string `json:"text" form:"text"`
}

// POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var in adminLoginForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	tok, err := h.Auth.Login(in.Secret)
	if err != nil {
		applog.Security(c, "admin.login.fail", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    tok,
		Path:     "/admin",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   false, // enable true behind TLS
	})
	applog.Audit(c, "admin.login.success", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/logout
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	h.Auth.Logout(c.Cookies(adminCookie))
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/admin",
		HTTPOnly: true,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "admin.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/api/state
func (h *AdminHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.Admin.Snapshot())
}

// POST /admin/api/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return invalid(c, "body")
	}
	if p.ID != "" {
		if _, ok := validate.ID(p.ID); !ok {
			return invalid(c, "id")
		}
	}
	if err := h.Admin.CreateProduct(c.UserContext(), p); err != nil {
		return fail(c, "admin.products.create", err, map[string]any{"product": p.ID})
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID, "price": p.Price, "stock": p.Stock})
	return c.SendStatus(fiber.StatusCreated)
}

// PUT /admin/api/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return invalid(c, "body")
	}
	p.ID = id
	if err := h.Admin.UpdateProduct(c.UserContext(), p); err != nil {
		return fail(c, "admin.products.update", err, map[string]any{"product": id})
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id, "price": p.Price, "stock": p.Stock})
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /admin/api/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	if err := h.Admin.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, "admin.products.delete", err, map[string]any{"product": id})
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// PATCH /admin/api/orders/:id
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	var in statusForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	if err := h.Admin.UpdateOrderStatus(c.UserContext(), id, domain.OrderStatus(in.Status)); err != nil {
		return fail(c, "admin.orders.update", err, map[string]any{"order_id": id})
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": in.Status})
	return c.SendStatus(fiber.StatusNoContent)
}

// PATCH /admin/api/tickets/:id
func (h *AdminHandler) UpdateTicketStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	var in statusForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	if err := h.Admin.UpdateTicketStatus(c.UserContext(), id, domain.TicketStatus(in.Status)); err != nil {
		return fail(c, "admin.tickets.update", err, map[string]any{"ticket_id": id})
	}
	applog.Audit(c, "admin.tickets.update", map[string]any{"ticket_id": id, "status": in.Status})
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /admin/api/tickets/:id
func (h *AdminHandler) DeleteTicket(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	if err := h.Admin.DeleteTicket(c.UserContext(), id); err != nil {
		return fail(c, "admin.tickets.delete", err, map[string]any{"ticket_id": id})
	}
	applog.Audit(c, "admin.tickets.delete", map[string]any{"ticket_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/api/promos
func (h *AdminHandler) AddPromo(c *fiber.Ctx) error {
	var in promoCreateForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	code, ok := validate.PromoCode(in.Code)
	if !ok {
		return invalid(c, "code")
	}
	if !validate.Percent(in.Discount) {
		return invalid(c, "discount")
	}
	p, err := h.Admin.AddPromo(c.UserContext(), code, in.Discount)
	if err != nil {
		return fail(c, "admin.promos.add", err, map[string]any{"code": code})
	}
	applog.Audit(c, "admin.promos.add", map[string]any{"code": code, "discount": in.Discount})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DELETE /admin/api/promos/:id
func (h *AdminHandler) DeletePromo(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	if err := h.Admin.DeletePromo(c.UserContext(), id); err != nil {
		return fail(c, "admin.promos.delete", err, map[string]any{"promo": id})
	}
	applog.Audit(c, "admin.promos.delete", map[string]any{"promo": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// PUT /admin/api/users/:email/balance
func (h *AdminHandler) SetBalance(c *fiber.Ctx) error {
	email, ok := validate.Email(c.Params("email"))
	if !ok {
		return invalid(c, "email")
	}
	var in balanceForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	if !validate.Amount(in.Balance) {
		return invalid(c, "balance")
	}
	if err := h.Admin.SetUserBalance(c.UserContext(), email, in.Balance); err != nil {
		return fail(c, "admin.users.balance", err, map[string]any{"email": email})
	}
	applog.Audit(c, "admin.users.balance", map[string]any{"email": email, "balance": in.Balance})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/api/messages
func (h *AdminHandler) Reply(c *fiber.Ctx) error {
	var in replyForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	to, ok := validate.Email(in.Recipient)
	if !ok {
		return invalid(c, "recipient")
	}
	text, ok := validate.Text(in.Text, 2000)
	if !ok {
		return invalid(c, "text")
	}
	msg, err := h.Admin.Reply(c.UserContext(), to, text)
	if err != nil {
		return fail(c, "admin.messages.reply", err, map[string]any{"recipient": to})
	}
	applog.Audit(c, "admin.messages.reply", map[string]any{"recipient": to})
	return c.Status(fiber.StatusCreated).JSON(msg)
}
