package services

import (
	"context"
	"slices"

	"pixelmart/internal/domain"
)

type WishlistService struct {
	Shop *Shop
}

func NewWishlistService(shop *Shop) *WishlistService { return &WishlistService{Shop: shop} }

// Toggle saves the product, or unsaves it when already saved. It reports
// whether the product is saved afterwards.
func (s *WishlistService) Toggle(ctx context.Context, productID string) (bool, error) {
	saved := false
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		if i := slices.Index(st.Wishlist, productID); i >= 0 {
			st.Wishlist = slices.Delete(st.Wishlist, i, i+1)
			return nil
		}
		if _, ok := st.ProductByID(productID); !ok {
			return ErrProductNotFound
		}
		st.Wishlist = append(st.Wishlist, productID)
		saved = true
		return nil
	})
	return saved, err
}

func (s *WishlistService) Remove(ctx context.Context, productID string) error {
	return s.Shop.Update(ctx, func(st *domain.State) error {
		st.Wishlist = slices.DeleteFunc(st.Wishlist, func(id string) bool { return id == productID })
		return nil
	})
}

// List resolves saved ids against the catalog; ids of deleted products are skipped.
func (s *WishlistService) List() []domain.Product {
	out := []domain.Product{}
	s.Shop.View(func(st *domain.State) {
		for _, id := range st.Wishlist {
			if p, ok := st.ProductByID(id); ok {
				out = append(out, p)
			}
		}
	})
	return out
}
