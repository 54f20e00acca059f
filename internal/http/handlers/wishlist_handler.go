package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "pixelmart/internal/log"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

// GET /api/v1/wishlist
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": h.Wish.List()})
}

// POST /api/v1/wishlist
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	var in cartLine
	if err := c.BodyParser(&in); err != nil {
		return invalid(c, "body")
	}
	pid, ok := validate.ID(in.ProductID)
	if !ok {
		return invalid(c, "productId")
	}
	saved, err := h.Wish.Toggle(c.UserContext(), pid)
	if err != nil {
		return fail(c, "wishlist.toggle", err, map[string]any{"product": pid})
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"product": pid, "saved": saved})
	return c.JSON(fiber.Map{"productId": pid, "saved": saved})
}

// DELETE /api/v1/wishlist/:id
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	if err := h.Wish.Remove(c.UserContext(), pid); err != nil {
		return fail(c, "wishlist.remove", err, map[string]any{"product": pid})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
