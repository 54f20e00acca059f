package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pixelmart/internal/domain"
	applog "pixelmart/internal/log"
	"pixelmart/internal/telemetry"
)

type Stage string

const (
	StageBilling   Stage = "billing"
	StageReview    Stage = "review"
	StageCompleted Stage = "completed"
)

type Billing struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
}

func (b Billing) complete() bool {
	return strings.TrimSpace(b.Name) != "" && strings.TrimSpace(b.Email) != "" && strings.TrimSpace(b.Country) != ""
}

// Quote is the price of the current cart. Nothing is rounded here; rounding is
// for display only.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	Promo    string  `json:"promo,omitempty"`
	Display  string  `json:"totalDisplay"`
}

func quoteFor(c domain.Cart, promo *domain.PromoCode) Quote {
	q := Quote{Subtotal: c.Total()}
	if promo != nil {
		q.Promo = promo.Code
		q.Discount = q.Subtotal * promo.Discount / 100
	}
	q.Total = q.Subtotal - q.Discount
	q.Display = domain.FormatMoney(q.Total)
	return q
}

type CheckoutSession struct {
	ID        string               `json:"id"`
	Stage     Stage                `json:"stage"`
	Billing   Billing              `json:"billing"`
	Method    domain.PaymentMethod `json:"paymentMethod,omitempty"`
	Promo     *domain.PromoCode    `json:"promo,omitempty"`
	Quote     Quote                `json:"quote"`
	OrderID   string               `json:"orderId,omitempty"`
	LastError string               `json:"lastError,omitempty"`

	touched time.Time
}

const (
	// open sessions idle longer than this are dropped
	sessionIdleTTL = 24 * time.Hour
	// completed sessions are kept this long to answer repeated confirms
	completedRetention = 15 * time.Minute
)

func (sess *CheckoutSession) expired(now time.Time) bool {
	ttl := sessionIdleTTL
	if sess.Stage == StageCompleted {
		ttl = completedRetention
	}
	return now.Sub(sess.touched) > ttl
}

// CheckoutService drives checkout sessions: billing, then review, then a
// completed order. Confirmations are serialized, and a completed session
// rejects any further confirmation, so a repeated submit cannot place a
// second order.
type CheckoutService struct {
	Shop    *Shop
	Sink    telemetry.Sink
	Metrics *telemetry.Metrics

	mu       sync.Mutex
	sessions map[string]*CheckoutSession
}

func NewCheckoutService(shop *Shop, sink telemetry.Sink, metrics *telemetry.Metrics) *CheckoutService {
	return &CheckoutService{Shop: shop, Sink: sink, Metrics: metrics, sessions: map[string]*CheckoutSession{}}
}

func (s *CheckoutService) reject(ctx context.Context, reason string, err error) error {
	s.Metrics.CheckoutRejected(ctx, reason)
	return err
}

// Begin opens a session for the current cart. user may be nil; when set it
// prefills the billing details.
func (s *CheckoutService) Begin(ctx context.Context, user *domain.User) (CheckoutSession, error) {
	var cart domain.Cart
	s.Shop.View(func(st *domain.State) { cart = st.Cart.Clone() })
	if len(cart) == 0 {
		return CheckoutSession{}, s.reject(ctx, "empty_cart", ErrEmptyCart)
	}

	now := s.Shop.Now()
	sess := &CheckoutSession{ID: uuid.NewString(), Stage: StageBilling, Quote: quoteFor(cart, nil), touched: now}
	if user != nil {
		sess.Billing = Billing{Name: user.Name, Email: user.Email}
	}
	s.mu.Lock()
	s.sweep(now)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return *sess, nil
}

// sweep drops expired sessions. Callers hold s.mu.
func (s *CheckoutService) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
		}
	}
}

// lookup returns a live session and marks it used. Callers hold s.mu.
func (s *CheckoutService) lookup(id string) (*CheckoutSession, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.Shop.Now()
	if sess.expired(now) {
		delete(s.sessions, id)
		return nil, false
	}
	if sess.Stage != StageCompleted {
		sess.touched = now
	}
	return sess, true
}

// Open reports how many sessions are held, expired ones excluded.
func (s *CheckoutService) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.Shop.Now())
	return len(s.sessions)
}

// Get returns the session with its quote refreshed from the current cart.
func (s *CheckoutService) Get(id string) (CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.lookup(id)
	if !ok {
		return CheckoutSession{}, ErrSessionNotFound
	}
	s.refresh(sess)
	return *sess, nil
}

// refresh recomputes the quote from the live cart. The quote shown at review
// is not frozen: cart edits made after review change the order that confirm
// places, and the client sees them on its next Get.
func (s *CheckoutService) refresh(sess *CheckoutSession) {
	if sess.Stage == StageCompleted {
		return
	}
	s.Shop.View(func(st *domain.State) { sess.Quote = quoteFor(st.Cart, sess.Promo) })
}

// with runs fn on a live session under the service lock.
func (s *CheckoutService) with(id string, fn func(sess *CheckoutSession) error) (CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.lookup(id)
	if !ok {
		return CheckoutSession{}, ErrSessionNotFound
	}
	if sess.Stage == StageCompleted {
		return *sess, ErrSessionClosed
	}
	if err := fn(sess); err != nil {
		return *sess, err
	}
	s.refresh(sess)
	return *sess, nil
}

func (s *CheckoutService) SetBilling(id string, b Billing, method domain.PaymentMethod) (CheckoutSession, error) {
	return s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageBilling {
			return ErrWrongStage
		}
		if method != "" && !method.Valid() {
			return ErrPaymentMethod
		}
		sess.Billing = Billing{
			Name:    strings.TrimSpace(b.Name),
			Email:   strings.TrimSpace(b.Email),
			Country: strings.TrimSpace(b.Country),
		}
		if method != "" {
			sess.Method = method
		}
		return nil
	})
}

// ApplyPromo looks the code up case-insensitively. An unknown code leaves the
// session exactly as it was, including any promo applied earlier. Promos can
// only change during billing.
func (s *CheckoutService) ApplyPromo(ctx context.Context, id, code string) (CheckoutSession, error) {
	code = strings.TrimSpace(code)
	var promo *domain.PromoCode
	s.Shop.View(func(st *domain.State) { promo = findPromo(st, code) })
	sess, err := s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageBilling {
			return ErrWrongStage
		}
		if promo == nil {
			return ErrInvalidPromo
		}
		sess.Promo = promo
		return nil
	})
	if errors.Is(err, ErrInvalidPromo) {
		s.Metrics.CheckoutRejected(ctx, "invalid_promo")
	}
	return sess, err
}

func (s *CheckoutService) ClearPromo(id string) (CheckoutSession, error) {
	return s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageBilling {
			return ErrWrongStage
		}
		sess.Promo = nil
		return nil
	})
}

func findPromo(st *domain.State, code string) *domain.PromoCode {
	if code == "" {
		return nil
	}
	for _, p := range st.Promos {
		if strings.EqualFold(p.Code, code) {
			out := p
			return &out
		}
	}
	return nil
}

// Review freezes the billing step and shows the final quote.
func (s *CheckoutService) Review(id string) (CheckoutSession, error) {
	return s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageBilling {
			return ErrWrongStage
		}
		if !sess.Billing.complete() || !sess.Method.Valid() {
			return ErrIncompleteBilling
		}
		empty := false
		s.Shop.View(func(st *domain.State) { empty = len(st.Cart) == 0 })
		if empty {
			return ErrEmptyCart
		}
		sess.Stage = StageReview
		sess.LastError = ""
		return nil
	})
}

// Edit goes back from review to billing.
func (s *CheckoutService) Edit(id string) (CheckoutSession, error) {
	return s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageReview {
			return ErrWrongStage
		}
		sess.Stage = StageBilling
		return nil
	})
}

// Abandon drops the session. Nothing was recorded before an order exists,
// so there is nothing to undo.
func (s *CheckoutService) Abandon(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ConfirmWallet settles from payer's balance; payer is the caller's signed-in
// account. The order, the debit on every copy of the account, and the emptied
// cart are one transition.
func (s *CheckoutService) ConfirmWallet(ctx context.Context, id string, payer *domain.User) (domain.Order, error) {
	return s.settle(ctx, id, func(sess *CheckoutSession) error {
		if sess.Method != domain.PaymentWallet {
			return ErrPaymentMethod
		}
		return nil
	}, func(st *domain.State, sess *CheckoutSession, q Quote) (domain.OrderStatus, error) {
		if payer == nil {
			return "", ErrNotSignedIn
		}
		i := st.UserIndex(payer.Email)
		if i < 0 {
			return "", ErrNotSignedIn
		}
		balance := st.AllUsers[i].Balance
		if q.Total > balance {
			return "", ErrInsufficientFunds
		}
		st.SetBalance(payer.Email, balance-q.Total)
		return domain.OrderCompleted, nil
	})
}

// ApprovePayment is the external widget's approval callback. The approval is
// authoritative; an amount that differs from the quote is logged, not refused.
func (s *CheckoutService) ApprovePayment(ctx context.Context, id string, amount float64) (domain.Order, error) {
	return s.settle(ctx, id, requireExternal, func(st *domain.State, sess *CheckoutSession, q Quote) (domain.OrderStatus, error) {
		if math.Abs(amount-q.Total) > 0.005 {
			applog.Security(nil, "payment.amount.mismatch", map[string]any{
				"session": sess.ID, "approved": amount, "quoted": q.Total,
			})
		}
		return domain.OrderCompleted, nil
	})
}

// PlacePending records an external-method order for manual resolution by an admin.
func (s *CheckoutService) PlacePending(ctx context.Context, id string) (domain.Order, error) {
	return s.settle(ctx, id, requireExternal, func(*domain.State, *CheckoutSession, Quote) (domain.OrderStatus, error) {
		return domain.OrderPending, nil
	})
}

// PaymentFailed records the widget's error. The session stays in review so the
// user can retry or go back and pick another method.
func (s *CheckoutService) PaymentFailed(ctx context.Context, id, reason string) (CheckoutSession, error) {
	sess, err := s.with(id, func(sess *CheckoutSession) error {
		if sess.Stage != StageReview {
			return ErrWrongStage
		}
		if reason == "" {
			reason = ErrPaymentUnavailable.Msg
		}
		sess.LastError = reason
		return nil
	})
	if err == nil {
		emit(ctx, s.Sink, telemetry.Event{
			Type: telemetry.EventPaymentFailed, Email: sess.Billing.Email,
			Fields: map[string]any{"method": string(sess.Method), "reason": reason},
		})
	}
	return sess, err
}

func requireExternal(sess *CheckoutSession) error {
	if !sess.Method.External() {
		return ErrPaymentMethod
	}
	return nil
}

type settleFunc func(st *domain.State, sess *CheckoutSession, q Quote) (domain.OrderStatus, error)

func (s *CheckoutService) settle(ctx context.Context, id string, pre func(*CheckoutSession) error, pay settleFunc) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return domain.Order{}, ErrSessionNotFound
	}
	if sess.Stage == StageCompleted {
		return domain.Order{}, s.reject(ctx, "already_completed", ErrSessionClosed)
	}
	if sess.Stage != StageReview {
		return domain.Order{}, ErrWrongStage
	}
	if err := pre(sess); err != nil {
		return domain.Order{}, err
	}

	emit(ctx, s.Sink, telemetry.Event{
		Type: telemetry.EventOrderAttempt, Email: sess.Billing.Email,
		Fields: map[string]any{"method": string(sess.Method)},
	})

	var order domain.Order
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		if len(st.Cart) == 0 {
			return ErrEmptyCart
		}
		promo := sess.Promo
		if promo != nil {
			// the code may have been deleted since it was applied
			if promo = findPromo(st, promo.Code); promo == nil {
				return ErrInvalidPromo
			}
		}
		q := quoteFor(st.Cart, promo)
		status, err := pay(st, sess, q)
		if err != nil {
			return err
		}
		order = s.place(st, sess, q, status)
		return nil
	})
	if err != nil {
		sess.LastError = err.Error()
		return domain.Order{}, s.reject(ctx, reasonFor(err), err)
	}

	sess.Stage = StageCompleted
	sess.OrderID = order.ID
	sess.LastError = ""
	sess.touched = s.Shop.Now()
	s.Metrics.OrderPlaced(ctx, string(order.PaymentMethod), string(order.Status), order.TotalAmount)
	emit(ctx, s.Sink, telemetry.Event{
		Type: telemetry.EventOrderPlaced, Email: order.Email, Success: true,
		Fields: map[string]any{"order_id": order.ID, "total": order.TotalAmount, "status": string(order.Status)},
	})
	return order, nil
}

// place creates the order, prepends it and empties the cart in the same state.
func (s *CheckoutService) place(st *domain.State, sess *CheckoutSession, q Quote, status domain.OrderStatus) domain.Order {
	o := domain.Order{
		ID:            newOrderID(st),
		Name:          sess.Billing.Name,
		Email:         sess.Billing.Email,
		Country:       sess.Billing.Country,
		ProductBought: st.Cart.Summary(),
		TotalAmount:   q.Total,
		Date:          s.Shop.timestamp(),
		Status:        status,
		PaymentMethod: sess.Method,
		AppliedPromo:  q.Promo,
	}
	st.Orders = append([]domain.Order{o}, st.Orders...)
	st.Cart = domain.Cart{}
	st.LastOrderID = o.ID
	sess.Quote = q
	return o
}

func newOrderID(st *domain.State) string {
	for {
		id := "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		if st.OrderIndex(id) < 0 {
			return id
		}
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrNotSignedIn):
		return "not_signed_in"
	case errors.Is(err, ErrInvalidPromo):
		return "invalid_promo"
	}
	return "other"
}
