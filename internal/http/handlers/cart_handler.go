package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartLine struct {
	ProductID string `json:"productId" form:"productId"`
	Delta     int    `json:"delta" form:"delta"`
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.View())
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in cartLine
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	pid, ok := validate.ID(in.ProductID)
	if !ok {
		return invalid(c, "productId")
	}
	cv, err := h.Cart.Add(c.UserContext(), pid)
	if err != nil {
		return fail(c, "cart.add", err, map[string]any{"product": pid})
	}
	applog.Audit(c, "cart.add", map[string]any{"product": pid, "count": cv.Count})
	return c.Status(fiber.StatusCreated).JSON(cv)
}

// PATCH /api/v1/cart/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	var in cartLine
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	delta, ok := validate.Delta(in.Delta)
	if !ok {
		return invalid(c, "delta")
	}
	cv, err := h.Cart.UpdateQuantity(c.UserContext(), pid, delta)
	if err != nil {
		return fail(c, "cart.update", err, map[string]any{"product": pid})
	}
	return c.JSON(cv)
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	cv, err := h.Cart.Remove(c.UserContext(), pid)
	if err != nil {
		return fail(c, "cart.remove", err, map[string]any{"product": pid})
	}
	applog.Audit(c, "cart.remove", map[string]any{"product": pid})
	return c.JSON(cv)
}
