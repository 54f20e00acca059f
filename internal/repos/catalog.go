package repos

import "pixelmart/internal/domain"

func price(v float64) *float64 { return &v }

// SeedCatalog is the static catalog used when no stored catalog exists.
func SeedCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "elden-ring-steam", Name: "Elden Ring (Steam Key)", Category: domain.CategoryGames,
			Price: 39.99, OriginalPrice: price(59.99),
			Description: "Global Steam activation key for the base game.",
			Features:    []string{"Instant delivery", "Global region", "Steam activation"},
			Stock:       120, Rating: 4.9,
		},
		{
			ID: "fc25-ps5", Name: "EA Sports FC 25 (PS5)", Category: domain.CategoryGames,
			Price: 49.99, OriginalPrice: price(69.99),
			Description: "PlayStation Store digital code.",
			Features:    []string{"EU/US accounts", "Full game"},
			Stock:       80, Rating: 4.4,
		},
		{
			ID: "win11-pro", Name: "Windows 11 Pro", Category: domain.CategorySoftware,
			Price: 24.90, OriginalPrice: price(199.00),
			Description: "Retail license key, one device.",
			Features:    []string{"Lifetime license", "32/64-bit", "Online activation"},
			Stock:       300, Rating: 4.7,
		},
		{
			ID: "office-2021", Name: "Office 2021 Professional Plus", Category: domain.CategorySoftware,
			Price: 34.50,
			Description: "Word, Excel, PowerPoint, Outlook and more.",
			Features:    []string{"One PC", "Lifetime license"},
			Stock:       150, Rating: 4.6,
		},
		{
			ID: "steam-gift-50", Name: "Steam Gift Card $50", Category: domain.CategoryGiftCards,
			Price: 50.00,
			Description: "Wallet top-up code for Steam.",
			Features:    []string{"USD wallets", "No expiry"},
			Stock:       500, Rating: 4.8,
		},
		{
			ID: "psn-card-100", Name: "PlayStation Store Card $100", Category: domain.CategoryGiftCards,
			Price: 100.00,
			Description: "PSN wallet top-up.",
			Features:    []string{"US accounts only"},
			Stock:       200, Rating: 4.8,
		},
		{
			ID: "netflix-premium-12m", Name: "Netflix Premium 12 Months", Category: domain.CategorySubscriptions,
			Price: 320.00, OriginalPrice: price(395.88),
			Description: "Twelve months of Netflix Premium, 4 screens UHD.",
			Features:    []string{"4K UHD", "4 screens", "12 months"},
			Stock:       40, Rating: 4.5,
		},
		{
			ID: "spotify-premium-6m", Name: "Spotify Premium 6 Months", Category: domain.CategorySubscriptions,
			Price: 45.00, OriginalPrice: price(65.94),
			Description: "Ad-free music, offline listening.",
			Features:    []string{"Individual plan", "6 months"},
			Stock:       0, Rating: 4.3,
		},
	}
}

func SeedPromos() []domain.PromoCode {
	return []domain.PromoCode{
		{ID: "promo-save10", Code: "SAVE10", Discount: 10},
		{ID: "promo-welcome5", Code: "WELCOME5", Discount: 5},
	}
}
