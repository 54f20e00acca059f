package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelmart/internal/domain"
	"pixelmart/internal/services"
)

func TestCartServiceAddAndAdjust(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cv, err := f.cart.Add(ctx, "steam-gift-50")
	require.NoError(t, err)
	cv, err = f.cart.Add(ctx, "steam-gift-50")
	require.NoError(t, err)
	require.Len(t, cv.Items, 1)
	assert.Equal(t, 2, cv.Count)
	assert.Equal(t, 100.0, cv.Total)
	assert.Equal(t, "$100.00", cv.TotalDisplay)

	cv, err = f.cart.UpdateQuantity(ctx, "steam-gift-50", -5)
	require.NoError(t, err)
	assert.Equal(t, 1, cv.Items[0].Quantity)

	cv, err = f.cart.Remove(ctx, "steam-gift-50")
	require.NoError(t, err)
	assert.Empty(t, cv.Items)
	assert.NotNil(t, cv.Items)
	assert.Equal(t, "$0.00", f.cart.View().TotalDisplay)
}

func TestCartServiceRejectsUnknownAndOutOfStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cart.Add(ctx, "does-not-exist")
	require.ErrorIs(t, err, services.ErrProductNotFound)
	_, err = f.cart.Add(ctx, "spotify-premium-6m")
	require.ErrorIs(t, err, services.ErrOutOfStock)
	assert.Empty(t, f.cart.View().Items)
}

func TestCartKeepsPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.Add(ctx, "win11-pro")
	require.NoError(t, err)

	p, err := services.NewCatalogService(f.shop).Get("win11-pro")
	require.NoError(t, err)
	p.Price = 99
	require.NoError(t, f.admin.UpdateProduct(ctx, p))

	assert.Equal(t, 24.90, f.cart.View().Total)
}

func TestWishlistToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := services.NewWishlistService(f.shop)

	saved, err := w.Toggle(ctx, "elden-ring-steam")
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = w.Toggle(ctx, "elden-ring-steam")
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = w.Toggle(ctx, "nope")
	require.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = w.Toggle(ctx, "fc25-ps5")
	require.NoError(t, err)
	require.NoError(t, f.admin.DeleteProduct(ctx, "fc25-ps5"))
	assert.Empty(t, w.List())
	require.NoError(t, w.Remove(ctx, "fc25-ps5"))
	assert.Empty(t, f.shop.Snapshot().Wishlist)
}

func TestCatalogSearch(t *testing.T) {
	f := newFixture(t)
	c := services.NewCatalogService(f.shop)

	assert.Len(t, c.List("", ""), 8)
	assert.Len(t, c.List("", domain.CategoryGiftCards), 2)
	got := c.List("STEAM", "")
	require.Len(t, got, 2)
	assert.Equal(t, "elden-ring-steam", got[0].ID)
	assert.Empty(t, c.List("steam", domain.CategorySoftware))

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
