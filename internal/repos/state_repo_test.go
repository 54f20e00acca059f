package repos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelmart/internal/domain"
	"pixelmart/internal/repos"
)

func memRepo(t *testing.T) *repos.StateRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewStateRepo(db)
}

func fullState() *domain.State {
	op := 59.99
	p1 := domain.Product{ID: "p1", Name: "One", Category: domain.CategoryGames, Price: 39.99, OriginalPrice: &op,
		Description: "d", Features: []string{"x", "y"}, Stock: 3, Rating: 4.5}
	p2 := domain.Product{ID: "p2", Name: "Two", Category: domain.CategorySoftware, Price: 10, Features: []string{}, Stock: 1}
	u := domain.User{ID: "u1", Name: "Ann", Email: "ann@x.io", State: domain.UserActive, JoinedAt: "2026-01-02T03:04:05Z", Balance: 12.5}
	return &domain.State{
		Products:    []domain.Product{p1, p2},
		Orders:      []domain.Order{{ID: "ORD-2", Email: "ann@x.io", TotalAmount: 9}, {ID: "ORD-1", Email: "ann@x.io", TotalAmount: 3.3, AppliedPromo: "SAVE10"}},
		Cart:        domain.Cart{}.Add(p1).Add(p1).Add(p2),
		Wishlist:    []string{"p2", "p1"},
		LastOrderID: "ORD-2",
		Tickets:     []domain.SupportTicket{{ID: "t1", Name: "Ann", Email: "ann@x.io", Message: "hi", Status: domain.TicketNew}},
		Promos:      []domain.PromoCode{{ID: "pr1", Code: "SAVE10", Discount: 10}},
		User:        &u,
		Messages: []domain.ChatMessage{
			{ID: "m1", SenderEmail: "ann@x.io", Text: "hello"},
			{ID: "m2", SenderEmail: "support", IsAdmin: true, Recipient: "ann@x.io", Text: "hi Ann"},
		},
		AllUsers: []domain.User{u, {ID: "u2", Email: "bob@x.io"}},
	}
}

func TestStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t)
	want := fullState()

	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// a second save overwrites in place
	want.Orders = want.Orders[:1]
	want.User = nil
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Orders, 1)
	assert.Nil(t, got.User)
}

func TestFreshStoreIsSeeded(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t)

	st, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, repos.SeedCatalog(), st.Products)
	assert.Equal(t, repos.SeedPromos(), st.Promos)
	assert.Empty(t, st.Orders)
	assert.Empty(t, st.Cart)
	assert.Nil(t, st.User)

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.KeyProducts, domain.KeyPromos}, keys)
}

func TestCorruptBlobFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t)
	require.NoError(t, repo.Put(ctx, domain.KeyOrders, []domain.Order{{ID: "ORD-1"}}))
	require.NoError(t, repo.Put(ctx, domain.KeyProducts, "not a product list"))

	st, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, repos.SeedCatalog(), st.Products)
	require.Len(t, st.Orders, 1)
}

func TestEmptiedCatalogStaysEmpty(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t)
	require.NoError(t, repo.Save(ctx, &domain.State{Products: []domain.Product{}}))

	st, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Products)
}

func TestGetRawBlob(t *testing.T) {
	ctx := context.Background()
	repo := memRepo(t)

	_, ok, err := repo.Get(ctx, domain.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, domain.KeyLastOrderID, "ORD-9"))
	raw, ok, err := repo.Get(ctx, domain.KeyLastOrderID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `"ORD-9"`, string(raw))
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "postgres", repos.DriverFor("postgres://u:p@localhost/db"))
	assert.Equal(t, "postgres", repos.DriverFor("postgresql://localhost/db"))
	assert.Equal(t, "sqlite", repos.DriverFor("pixelmart.db"))
	assert.Equal(t, "sqlite", repos.DriverFor(":memory:"))
}
