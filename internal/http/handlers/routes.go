package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "pixelmart/internal/log"
)

// Register mounts every storefront and admin route on app.
func Register(app *fiber.App, d *Deps) {
	app.Use(Observe(d.Metrics))
	app.Use(AttachUser(d.Auth))

	app.Get("/", d.CatalogHandler.Home)
	app.Get("/order/:id", d.CheckoutHandler.Receipt)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api/v1")
	api.Get("/csrf", func(c *fiber.Ctx) error {
		tok, _ := c.Locals("csrf").(string)
		return c.JSON(fiber.Map{"token": tok})
	})

	api.Get("/products", d.CatalogHandler.List)
	api.Get("/products/:id", d.CatalogHandler.Get)

	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Patch("/cart/:id", d.CartHandler.Update)
	api.Delete("/cart/:id", d.CartHandler.Remove)

	api.Get("/wishlist", d.WishlistHandler.List)
	api.Post("/wishlist", d.WishlistHandler.Toggle)
	api.Delete("/wishlist/:id", d.WishlistHandler.Remove)

	// auth throttled per client
	api.Post("/auth", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Authenticate)
	api.Get("/auth/me", d.AuthHandler.Me)
	api.Post("/auth/logout", d.AuthHandler.Logout)

	co := api.Group("/checkout")
	co.Post("/", d.CheckoutHandler.Begin)
	co.Get("/:id", d.CheckoutHandler.Get)
	co.Delete("/:id", d.CheckoutHandler.Abandon)
	co.Put("/:id/billing", d.CheckoutHandler.Billing)
	co.Post("/:id/promo", d.CheckoutHandler.ApplyPromo)
	co.Delete("/:id/promo", d.CheckoutHandler.ClearPromo)
	co.Post("/:id/review", d.CheckoutHandler.Review)
	co.Post("/:id/edit", d.CheckoutHandler.Edit)
	co.Post("/:id/confirm", d.CheckoutHandler.ConfirmWallet)
	co.Post("/:id/payment/approve", d.CheckoutHandler.Approve)
	co.Post("/:id/payment/pending", d.CheckoutHandler.Pending)
	co.Post("/:id/payment/error", d.CheckoutHandler.PaymentError)

	api.Post("/tickets", limiter.New(limiter.Config{Max: 10, Expiration: time.Hour}), d.AccountHandler.SubmitTicket)
	signedIn := RequireUser(d.Auth)
	api.Get("/orders", signedIn, d.AccountHandler.Orders)
	api.Get("/messages", signedIn, d.AccountHandler.Thread)
	api.Post("/messages", signedIn, d.AccountHandler.Send)

	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.admin.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AdminHandler.Login)
	app.Post("/admin/logout", d.AdminHandler.Logout)

	admin := app.Group("/admin/api", RequireAdmin(d.AdminAuth))
	admin.Get("/state", d.AdminHandler.Snapshot)
	admin.Post("/products", d.AdminHandler.CreateProduct)
	admin.Put("/products/:id", d.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", d.AdminHandler.DeleteProduct)
	admin.Patch("/orders/:id", d.AdminHandler.UpdateOrderStatus)
	admin.Patch("/tickets/:id", d.AdminHandler.UpdateTicketStatus)
	admin.Delete("/tickets/:id", d.AdminHandler.DeleteTicket)
	admin.Post("/promos", d.AdminHandler.AddPromo)
	admin.Delete("/promos/:id", d.AdminHandler.DeletePromo)
	admin.Put("/users/:email/balance", d.AdminHandler.SetBalance)
	admin.Post("/messages", d.AdminHandler.Reply)
}

// NotFound is the final catch-all.
func NotFound(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return notFound(c, "Page not found")
}
