package services

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindConflict
	KindExternal
)

// Error is a business-rule failure surfaced to the caller. Persistence
// failures never reach here; Shop logs and swallows them.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

var (
	ErrInvalidInput      = newErr(KindValidation, "invalid input")
	ErrEmptyCart         = newErr(KindValidation, "cart is empty")
	ErrOutOfStock        = newErr(KindValidation, "product is out of stock")
	ErrInvalidPromo      = newErr(KindValidation, "invalid promo code")
	ErrInsufficientFunds = newErr(KindValidation, "insufficient balance")
	ErrIncompleteBilling = newErr(KindValidation, "billing details are incomplete")
	ErrPaymentMethod     = newErr(KindValidation, "payment method not allowed for this step")

	ErrBadCreds    = newErr(KindUnauthorized, "invalid email or password")
	ErrNotSignedIn = newErr(KindUnauthorized, "sign in required")

	ErrNoAccount          = newErr(KindNotFound, "no account found for this email")
	ErrProductNotFound    = newErr(KindNotFound, "product not found")
	ErrOrderNotFound      = newErr(KindNotFound, "order not found")
	ErrTicketNotFound     = newErr(KindNotFound, "ticket not found")
	ErrPromoNotFound      = newErr(KindNotFound, "promo code not found")
	ErrUserNotFound       = newErr(KindNotFound, "user not found")
	ErrSessionNotFound    = newErr(KindNotFound, "checkout session not found")
	ErrDuplicateEmail     = newErr(KindConflict, "an account with this email already exists")
	ErrDuplicateProduct   = newErr(KindConflict, "product id already exists")
	ErrDuplicatePromo     = newErr(KindConflict, "promo code already exists")
	ErrSessionClosed      = newErr(KindConflict, "checkout already completed")
	ErrWrongStage         = newErr(KindConflict, "checkout is not at this step")
	ErrPaymentUnavailable = newErr(KindExternal, "payment provider unavailable")
)

// KindOf returns the error's kind, or 0 for errors that are not business failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
