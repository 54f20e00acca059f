package domain

type Category string

const (
	CategoryGames         Category = "games"
	CategorySoftware      Category = "software"
	CategoryGiftCards     Category = "gift-cards"
	CategorySubscriptions Category = "subscriptions"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGames, CategorySoftware, CategoryGiftCards, CategorySubscriptions:
		return true
	}
	return false
}

type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Stock         int      `json:"stock"`
	Rating        float64  `json:"rating"`
}

func (p Product) clone() Product {
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	if p.Features != nil {
		p.Features = append(make([]string, 0, len(p.Features)), p.Features...)
	}
	return p
}

type OrderStatus string

const (
	OrderPending          OrderStatus = "Pending"
	OrderPaymentVerifying OrderStatus = "Payment Verifying"
	OrderProcessing       OrderStatus = "Processing"
	OrderCompleted        OrderStatus = "Completed"
	OrderCancelled        OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaymentVerifying, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "wallet" // internal balance, settles immediately
	PaymentPayPal PaymentMethod = "paypal"
	PaymentCard   PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentWallet || m.External()
}

// External reports whether settlement is delegated to a third-party widget.
func (m PaymentMethod) External() bool {
	return m == PaymentPayPal || m == PaymentCard
}

// Order financial fields are fixed at creation; only Status changes afterwards.
type Order struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Country       string        `json:"country"`
	ProductBought string        `json:"productBought"`
	TotalAmount   float64       `json:"totalAmount"`
	Date          string        `json:"date"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	AppliedPromo  string        `json:"appliedPromo,omitempty"`
}

type PromoCode struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"` // percent, 0..100
}

type TicketStatus string

const (
	TicketNew     TicketStatus = "New"
	TicketRead    TicketStatus = "Read"
	TicketReplied TicketStatus = "Replied"
)

func (s TicketStatus) Valid() bool {
	return s == TicketNew || s == TicketRead || s == TicketReplied
}

type SupportTicket struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Message string       `json:"message"`
	Date    string       `json:"date"`
	Status  TicketStatus `json:"status"`
}

type ChatMessage struct {
	ID          string `json:"id"`
	SenderEmail string `json:"senderEmail"`
	SenderName  string `json:"senderName"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"`
	IsAdmin     bool   `json:"isAdmin"`
	// Recipient is set on admin replies only.
	Recipient string `json:"recipient,omitempty"`
}
