package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pixelmart/internal/domain"
	"pixelmart/internal/repos"
	"pixelmart/internal/services"
	"pixelmart/internal/telemetry"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// testSID is the client session most fixture helpers sign in under.
const testSID = "sid-test"

type fixture struct {
	repo     *repos.StateRepo
	shop     *services.Shop
	sink     *recordingSink
	cart     *services.CartService
	auth     *services.AuthService
	checkout *services.CheckoutService
	account  *services.AccountService
	admin    *services.AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repos.NewStateRepo(db)
	st, err := repo.Load(context.Background())
	require.NoError(t, err)

	shop := services.NewShop(st, repo)
	shop.Now = func() time.Time { return fixedNow }
	sink := &recordingSink{}
	auth := services.NewAuthService(shop, sink)
	auth.Cost = bcrypt.MinCost

	return &fixture{
		repo:     repo,
		shop:     shop,
		sink:     sink,
		cart:     services.NewCartService(shop),
		auth:     auth,
		checkout: services.NewCheckoutService(shop, sink, nil),
		account:  services.NewAccountService(shop),
		admin:    services.NewAdminService(shop),
	}
}

// signUp creates and signs in a user holding balance.
func (f *fixture) signUp(t *testing.T, email string, balance float64) {
	t.Helper()
	ctx := context.Background()
	_, _, err := f.auth.Authenticate(ctx, testSID, services.ModeSignup, services.Credentials{Name: "Test User", Email: email, Password: "Passw0rd!"})
	require.NoError(t, err)
	require.NoError(t, f.admin.SetUserBalance(ctx, email, balance))
}

// reviewed walks a new session through billing to review.
func (f *fixture) reviewed(t *testing.T, method domain.PaymentMethod) services.CheckoutSession {
	t.Helper()
	sess, err := f.checkout.Begin(context.Background(), f.auth.Current(testSID))
	require.NoError(t, err)
	_, err = f.checkout.SetBilling(sess.ID, services.Billing{Name: "Test User", Email: "buyer@pixel.test", Country: "FR"}, method)
	require.NoError(t, err)
	sess, err = f.checkout.Review(sess.ID)
	require.NoError(t, err)
	return sess
}

type recordingSink struct {
	mu     sync.Mutex
	events []telemetry.Event
}

func (r *recordingSink) Emit(_ context.Context, e telemetry.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) Close() error { return nil }

func (r *recordingSink) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type failingSaver struct{ calls int }

func (f *failingSaver) Save(context.Context, *domain.State) error {
	f.calls++
	return errors.New("disk full")
}
