package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"pixelmart/internal/domain"
)

const SupportSender = "support"

// AdminService is the unrestricted mutation surface behind the admin login.
// Each call is a direct replace or filter over one collection.
type AdminService struct {
	Shop *Shop
}

func NewAdminService(shop *Shop) *AdminService { return &AdminService{Shop: shop} }

// Snapshot returns every collection, with password hashes removed.
func (s *AdminService) Snapshot() *domain.State {
	st := s.Shop.Snapshot()
	for i := range st.AllUsers {
		st.AllUsers[i] = st.AllUsers[i].Public()
	}
	if st.User != nil {
		u := st.User.Public()
		st.User = &u
	}
	return st
}

func validProduct(p domain.Product) bool {
	return strings.TrimSpace(p.ID) != "" && strings.TrimSpace(p.Name) != "" &&
		p.Category.Valid() && p.Price >= 0 && p.Stock >= 0
}

func (s *AdminService) CreateProduct(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if !validProduct(p) {
		return ErrInvalidInput
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		if _, ok := st.ProductByID(p.ID); ok {
			return ErrDuplicateProduct
		}
		st.Products = append(st.Products, p)
		return nil
	})
}

func (s *AdminService) UpdateProduct(ctx context.Context, p domain.Product) error {
	if !validProduct(p) {
		return ErrInvalidInput
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		i := slices.IndexFunc(st.Products, func(x domain.Product) bool { return x.ID == p.ID })
		if i < 0 {
			return ErrProductNotFound
		}
		st.Products[i] = p
		return nil
	})
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	return s.Shop.Update(ctx, func(st *domain.State) error {
		n := len(st.Products)
		st.Products = slices.DeleteFunc(st.Products, func(x domain.Product) bool { return x.ID == id })
		if len(st.Products) == n {
			return ErrProductNotFound
		}
		return nil
	})
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		i := st.OrderIndex(id)
		if i < 0 {
			return ErrOrderNotFound
		}
		st.Orders[i].Status = status
		return nil
	})
}

func (s *AdminService) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		i := slices.IndexFunc(st.Tickets, func(t domain.SupportTicket) bool { return t.ID == id })
		if i < 0 {
			return ErrTicketNotFound
		}
		st.Tickets[i].Status = status
		return nil
	})
}

func (s *AdminService) DeleteTicket(ctx context.Context, id string) error {
	return s.Shop.Update(ctx, func(st *domain.State) error {
		n := len(st.Tickets)
		st.Tickets = slices.DeleteFunc(st.Tickets, func(t domain.SupportTicket) bool { return t.ID == id })
		if len(st.Tickets) == n {
			return ErrTicketNotFound
		}
		return nil
	})
}

func (s *AdminService) AddPromo(ctx context.Context, code string, discount float64) (domain.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" || discount < 0 || discount > 100 {
		return domain.PromoCode{}, ErrInvalidInput
	}
	p := domain.PromoCode{ID: uuid.NewString(), Code: code, Discount: discount}
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		if findPromo(st, code) != nil {
			return ErrDuplicatePromo
		}
		st.Promos = append(st.Promos, p)
		return nil
	})
	return p, err
}

// DeletePromo removes a promo by id or, failing that, by code.
func (s *AdminService) DeletePromo(ctx context.Context, idOrCode string) error {
	return s.Shop.Update(ctx, func(st *domain.State) error {
		n := len(st.Promos)
		st.Promos = slices.DeleteFunc(st.Promos, func(p domain.PromoCode) bool {
			return p.ID == idOrCode || strings.EqualFold(p.Code, idOrCode)
		})
		if len(st.Promos) == n {
			return ErrPromoNotFound
		}
		return nil
	})
}

// SetUserBalance updates the users collection and the signed-in copy together.
func (s *AdminService) SetUserBalance(ctx context.Context, email string, balance float64) error {
	if balance < 0 {
		return ErrInvalidInput
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		if !st.SetBalance(email, balance) {
			return ErrUserNotFound
		}
		return nil
	})
}

// Reply posts a support message addressed to recipient.
func (s *AdminService) Reply(ctx context.Context, recipient, text string) (domain.ChatMessage, error) {
	recipient, text = strings.TrimSpace(recipient), strings.TrimSpace(text)
	if recipient == "" || text == "" {
		return domain.ChatMessage{}, ErrInvalidInput
	}
	var msg domain.ChatMessage
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		msg = domain.ChatMessage{
			ID:          uuid.NewString(),
			SenderEmail: SupportSender,
			SenderName:  "Support",
			Text:        text,
			Timestamp:   s.Shop.timestamp(),
			IsAdmin:     true,
			Recipient:   recipient,
		}
		st.Messages = append(st.Messages, msg)
		return nil
	})
	return msg, err
}

// Orders lists every order, most recent first.
func (s *AdminService) Orders() []domain.Order {
	var out []domain.Order
	s.Shop.View(func(st *domain.State) { out = append([]domain.Order{}, st.Orders...) })
	return out
}
