package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"pixelmart/internal/domain"
)

type AccountService struct {
	Shop *Shop
}

func NewAccountService(shop *Shop) *AccountService { return &AccountService{Shop: shop} }

// OrderHistory lists the orders placed under email, most recent first.
func (s *AccountService) OrderHistory(email string) []domain.Order {
	out := []domain.Order{}
	s.Shop.View(func(st *domain.State) {
		for _, o := range st.Orders {
			if domain.SameEmail(o.Email, email) {
				out = append(out, o)
			}
		}
	})
	return out
}

// Thread is the user's support conversation: what they sent plus admin
// replies addressed to them, in send order.
func (s *AccountService) Thread(email string) []domain.ChatMessage {
	out := []domain.ChatMessage{}
	s.Shop.View(func(st *domain.State) {
		for _, m := range st.Messages {
			if m.IsAdmin && domain.SameEmail(m.Recipient, email) ||
				!m.IsAdmin && domain.SameEmail(m.SenderEmail, email) {
				out = append(out, m)
			}
		}
	})
	return out
}

// Send appends a message from sender, the caller's signed-in account.
func (s *AccountService) Send(ctx context.Context, sender *domain.User, text string) (domain.ChatMessage, error) {
	if sender == nil {
		return domain.ChatMessage{}, ErrNotSignedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrInvalidInput
	}
	var msg domain.ChatMessage
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		msg = domain.ChatMessage{
			ID:          uuid.NewString(),
			SenderEmail: sender.Email,
			SenderName:  sender.Name,
			Text:        text,
			Timestamp:   s.Shop.timestamp(),
		}
		st.Messages = append(st.Messages, msg)
		return nil
	})
	return msg, err
}

// SubmitTicket records a contact-form message.
func (s *AccountService) SubmitTicket(ctx context.Context, name, email, message string) (domain.SupportTicket, error) {
	name, email, message = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(message)
	if name == "" || email == "" || message == "" {
		return domain.SupportTicket{}, ErrInvalidInput
	}
	var t domain.SupportTicket
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		t = domain.SupportTicket{
			ID:      uuid.NewString(),
			Name:    name,
			Email:   email,
			Message: message,
			Date:    s.Shop.timestamp(),
			Status:  domain.TicketNew,
		}
		st.Tickets = append([]domain.SupportTicket{t}, st.Tickets...)
		return nil
	})
	return t, err
}
