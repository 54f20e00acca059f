package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pixelmart/internal/domain"
	"pixelmart/internal/services"
	"pixelmart/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Cart    *services.CartService
}

// GET /
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{
		"Products": h.Catalog.List("", ""),
		"Cart":     h.Cart.View(),
	})
}

// GET /api/v1/products?q=&category=
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return invalid(c, "q")
	}
	cat := domain.Category(c.Query("category"))
	if cat != "" && !cat.Valid() {
		return invalid(c, "category")
	}
	return c.JSON(fiber.Map{"products": h.Catalog.List(q, cat)})
}

// GET /api/v1/products/:id
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "catalog.get", err, map[string]any{"product": id})
	}
	return c.JSON(p)
}
