package domain

import "slices"

// Storage keys. Each collection is persisted as one JSON blob under its key.
const (
	KeyProducts    = "products"
	KeyOrders      = "orders"
	KeyCart        = "cart"
	KeyWishlist    = "wishlist"
	KeyLastOrderID = "lastOrderId"
	KeyTickets     = "tickets"
	KeyPromos      = "promos"
	KeyUser        = "user"
	KeyMessages    = "messages"
	KeyAllUsers    = "allUsers"
)

var StateKeys = []string{
	KeyProducts, KeyOrders, KeyCart, KeyWishlist, KeyLastOrderID,
	KeyTickets, KeyPromos, KeyUser, KeyMessages, KeyAllUsers,
}

// State is the whole storefront: every collection plus the signed-in user.
// Orders are kept most-recent-first.
type State struct {
	Products    []Product       `json:"products"`
	Orders      []Order         `json:"orders"`
	Cart        Cart            `json:"cart"`
	Wishlist    []string        `json:"wishlist"`
	LastOrderID string          `json:"lastOrderId"`
	Tickets     []SupportTicket `json:"tickets"`
	Promos      []PromoCode     `json:"promos"`
	User        *User           `json:"user"`
	Messages    []ChatMessage   `json:"messages"`
	AllUsers    []User          `json:"allUsers"`
}

func (s *State) Clone() *State {
	out := &State{
		Orders:      slices.Clone(s.Orders),
		Cart:        s.Cart.Clone(),
		Wishlist:    slices.Clone(s.Wishlist),
		LastOrderID: s.LastOrderID,
		Tickets:     slices.Clone(s.Tickets),
		Promos:      slices.Clone(s.Promos),
		Messages:    slices.Clone(s.Messages),
		AllUsers:    slices.Clone(s.AllUsers),
	}
	if s.Products != nil {
		out.Products = make([]Product, len(s.Products))
		for i, p := range s.Products {
			out.Products[i] = p.clone()
		}
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

func (s *State) ProductByID(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *State) UserIndex(email string) int {
	for i, u := range s.AllUsers {
		if SameEmail(u.Email, email) {
			return i
		}
	}
	return -1
}

func (s *State) OrderIndex(id string) int {
	for i, o := range s.Orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// SetBalance updates the canonical users collection and the signed-in copy together.
func (s *State) SetBalance(email string, balance float64) bool {
	i := s.UserIndex(email)
	if i < 0 {
		return false
	}
	s.AllUsers[i].Balance = balance
	if s.User != nil && SameEmail(s.User.Email, email) {
		s.User.Balance = balance
	}
	return true
}
