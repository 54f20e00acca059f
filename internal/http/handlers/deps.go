package handlers

import (
	"pixelmart/internal/services"
	"pixelmart/internal/telemetry"
)

type Deps struct {
	Auth      *services.AuthService
	AdminAuth *services.AdminAuth
	Metrics   *telemetry.Metrics

	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	AuthHandler     *AuthHandler
	CheckoutHandler *CheckoutHandler
	AccountHandler  *AccountHandler
	AdminHandler    *AdminHandler
}

func NewDeps(shop *services.Shop, sink telemetry.Sink, metrics *telemetry.Metrics, adminAuth *services.AdminAuth) *Deps {
	catalogSvc := services.NewCatalogService(shop)
	cartSvc := services.NewCartService(shop)
	wishSvc := services.NewWishlistService(shop)
	authSvc := services.NewAuthService(shop, sink)
	checkoutSvc := services.NewCheckoutService(shop, sink, metrics)
	accountSvc := services.NewAccountService(shop)
	adminSvc := services.NewAdminService(shop)

	return &Deps{
		Auth:      authSvc,
		AdminAuth: adminAuth,
		Metrics:   metrics,

		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc, Cart: cartSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CheckoutHandler: &CheckoutHandler{Checkout: checkoutSvc, Orders: adminSvc},
		AccountHandler:  &AccountHandler{Account: accountSvc},
		AdminHandler:    &AdminHandler{Auth: adminAuth, Admin: adminSvc},
	}
}
