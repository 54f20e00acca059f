package services

import (
	"context"

	"pixelmart/internal/domain"
)

type CartService struct {
	Shop *Shop
}

func NewCartService(shop *Shop) *CartService {
	return &CartService{Shop: shop}
}

type CartView struct {
	Items        domain.Cart `json:"items"`
	Count        int         `json:"count"`
	Total        float64     `json:"total"`
	TotalDisplay string      `json:"totalDisplay"`
}

func viewOf(c domain.Cart) CartView {
	if c == nil {
		c = domain.Cart{}
	}
	total := c.Total()
	return CartView{Items: c, Count: c.Count(), Total: total, TotalDisplay: domain.FormatMoney(total)}
}

func (s *CartService) Add(ctx context.Context, productID string) (CartView, error) {
	var cv CartView
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		p, ok := st.ProductByID(productID)
		if !ok {
			return ErrProductNotFound
		}
		if p.Stock <= 0 {
			return ErrOutOfStock
		}
		st.Cart = st.Cart.Add(p)
		cv = viewOf(st.Cart.Clone())
		return nil
	})
	return cv, err
}

func (s *CartService) Remove(ctx context.Context, productID string) (CartView, error) {
	var cv CartView
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		st.Cart = st.Cart.Remove(productID)
		cv = viewOf(st.Cart.Clone())
		return nil
	})
	return cv, err
}

func (s *CartService) UpdateQuantity(ctx context.Context, productID string, delta int) (CartView, error) {
	var cv CartView
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		st.Cart = st.Cart.UpdateQuantity(productID, delta)
		cv = viewOf(st.Cart.Clone())
		return nil
	})
	return cv, err
}

func (s *CartService) View() CartView {
	var cv CartView
	s.Shop.View(func(st *domain.State) { cv = viewOf(st.Cart.Clone()) })
	return cv
}
