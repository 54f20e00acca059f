package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Orders   *services.AdminService
}

type billingForm struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Country       string `json:"country" form:"country"`
	PaymentMethod string `json:"paymentMethod" form:"paymentMethod"`
}

type promoForm struct {
	Code string `json:"code" form:"code"`
}

type paymentForm struct {
	Amount float64 `json:"amount" form:"amount"`
	Reason string `json:"reason" form:"reason"`
}

func sessionID(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Begin(c *fiber.Ctx) error {
	sess, err := h.Checkout.Begin(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "checkout.begin", err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// GET /api/v1/checkout/:id
func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	sess, err := h.Checkout.Get(id)
	if err != nil {
		return fail(c, "checkout.get", err, nil)
	}
	return c.JSON(sess)
}

// PUT /api/v1/checkout/:id/billing
func (h *CheckoutHandler) Billing(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	var in billingForm
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
	country, ok := validate.Country(in.Country)
	if !ok {
		return invalid(c, "country")
	}
	method := domain.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return invalid(c, "paymentMethod")
	}
	sess, err := h.Checkout.SetBilling(id, services.Billing{Name: name, Email: email, Country: country}, method)
	if err != nil {
		return fail(c, "checkout.billing", err, map[string]any{"session": id})
	}
	return c.JSON(sess)
}

// POST /api/v1/checkout/:id/promo
func (h *CheckoutHandler) ApplyPromo(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	var in promoForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	code, ok := validate.PromoCode(in.Code)
	if !ok {
		return invalid(c, "code")
	}
	sess, err := h.Checkout.ApplyPromo(c.UserContext(), id, code)
	if err != nil {
		applog.Info(c, "checkout.promo.reject", map[string]any{"session": id, "code": code})
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "session": sess})
	}
	return c.JSON(sess)
}

// DELETE /api/v1/checkout/:id/promo
func (h *CheckoutHandler) ClearPromo(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	sess, err := h.Checkout.ClearPromo(id)
	if err != nil {
		return fail(c, "checkout.promo.clear", err, nil)
	}
	return c.JSON(sess)
}

// POST /api/v1/checkout/:id/review
func (h *CheckoutHandler) Review(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	sess, err := h.Checkout.Review(id)
	if err != nil {
		return fail(c, "checkout.review", err, map[string]any{"session": id})
	}
	return c.JSON(sess)
}

// POST /api/v1/checkout/:id/edit
func (h *CheckoutHandler) Edit(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	sess, err := h.Checkout.Edit(id)
	if err != nil {
		return fail(c, "checkout.edit", err, nil)
	}
	return c.JSON(sess)
}

// POST /api/v1/checkout/:id/confirm
func (h *CheckoutHandler) ConfirmWallet(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	order, err := h.Checkout.ConfirmWallet(c.UserContext(), id, currentUser(c))
	if err != nil {
		return fail(c, "checkout.confirm", err, map[string]any{"session": id, "method": "wallet"})
	}
	return h.placed(c, order)
}

// POST /api/v1/checkout/:id/payment/approve
func (h *CheckoutHandler) Approve(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	var in paymentForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	if !validate.Amount(in.Amount) {
		return invalid(c, "amount")
	}
	order, err := h.Checkout.ApprovePayment(c.UserContext(), id, in.Amount)
	if err != nil {
		return fail(c, "checkout.approve", err, map[string]any{"session": id})
	}
	return h.placed(c, order)
}

// POST /api/v1/checkout/:id/payment/pending
func (h *CheckoutHandler) Pending(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	order, err := h.Checkout.PlacePending(c.UserContext(), id)
	if err != nil {
		return fail(c, "checkout.pending", err, map[string]any{"session": id})
	}
	return h.placed(c, order)
}

// POST /api/v1/checkout/:id/payment/error
func (h *CheckoutHandler) PaymentError(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	var in paymentForm
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	reason, _ := validate.Text(in.Reason, 200)
	sess, err := h.Checkout.PaymentFailed(c.UserContext(), id, reason)
	if err != nil {
		return fail(c, "checkout.payment", err, map[string]any{"session": id})
	}
	applog.Info(c, "checkout.payment.fail", map[string]any{"session": id, "reason": sess.LastError})
	return c.JSON(sess)
}

// DELETE /api/v1/checkout/:id
func (h *CheckoutHandler) Abandon(c *fiber.Ctx) error {
	id, ok := sessionID(c)
	if !ok {
		return invalid(c, "id")
	}
	if err := h.Checkout.Abandon(id); err != nil {
		return fail(c, "checkout.abandon", err, nil)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CheckoutHandler) placed(c *fiber.Ctx, o domain.Order) error {
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.TotalAmount,
		"method":   string(o.PaymentMethod),
		"status":   string(o.Status),
		"promo":    o.AppliedPromo,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o, "receipt": "/order/" + o.ID})
}

// GET /order/:id
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Order not found")
	}
	for _, o := range h.Orders.Orders() {
		if o.ID == id {
			return render(c, "receipt", fiber.Map{"Order": o})
		}
	}
	applog.Security(c, "order.receipt.miss", map[string]any{"order_id": id})
	return notFound(c, "Order not found")
}
