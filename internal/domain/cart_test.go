package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelmart/internal/domain"
)

func prod(id string, price float64) domain.Product {
	return domain.Product{ID: id, Name: "Item " + id, Price: price, Features: []string{"a"}}
}

func TestCartAddSameProductTwiceMergesLine(t *testing.T) {
	var c domain.Cart
	c = c.Add(prod("p1", 10)).Add(prod("p1", 10))

	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Quantity)
}

func TestCartOperationsLeaveOriginalUntouched(t *testing.T) {
	orig := domain.Cart{}.Add(prod("p1", 10))

	_ = orig.Add(prod("p1", 10))
	_ = orig.UpdateQuantity("p1", 5)
	_ = orig.Remove("p1")

	require.Len(t, orig, 1)
	assert.Equal(t, 1, orig[0].Quantity)
}

func TestCartUpdateQuantityNeverBelowOne(t *testing.T) {
	c := domain.Cart{}.Add(prod("p1", 10)).Add(prod("p1", 10))
	for _, delta := range []int{-1, -2, -100, 0, 3} {
		got := c.UpdateQuantity("p1", delta)
		require.Len(t, got, 1)
		assert.GreaterOrEqual(t, got[0].Quantity, 1, "delta %d", delta)
	}
	assert.Equal(t, 5, c.UpdateQuantity("p1", 3)[0].Quantity)

	one := domain.Cart{}.Add(prod("p2", 1))
	assert.Equal(t, 1, one.UpdateQuantity("p2", -1)[0].Quantity)
}

func TestCartRemove(t *testing.T) {
	c := domain.Cart{}.Add(prod("p1", 10)).Add(prod("p2", 5))

	got := c.Remove("p1")
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	assert.Len(t, c.Remove("missing"), 2)
}

func TestCartTotalIsLinear(t *testing.T) {
	c := domain.Cart{}.Add(prod("p1", 19.99)).Add(prod("p2", 5.25)).Add(prod("p2", 5.25))
	doubled := c.UpdateQuantity("p1", 1).UpdateQuantity("p2", 2)

	assert.InDelta(t, 2*c.Total(), doubled.Total(), 1e-9)
	assert.InDelta(t, 19.99+10.5, c.Total(), 1e-9)
	assert.Zero(t, domain.Cart{}.Total())
}

func TestCartSummary(t *testing.T) {
	c := domain.Cart{}.Add(prod("p1", 1)).Add(prod("p1", 1)).Add(prod("p2", 1))
	assert.Equal(t, "Item p1 ×2, Item p2 ×1", c.Summary())
	assert.Equal(t, 3, c.Count())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$180.00", domain.FormatMoney(180))
	assert.Equal(t, "$1,234.50", domain.FormatMoney(1234.5))
	assert.Equal(t, "-$3.10", domain.FormatMoney(-3.1))
}

func TestStateCloneIsDeep(t *testing.T) {
	st := &domain.State{
		Products: []domain.Product{prod("p1", 1)},
		Cart:     domain.Cart{}.Add(prod("p1", 1)),
		User:     &domain.User{Email: "a@x.io", Balance: 5},
		AllUsers: []domain.User{{Email: "a@x.io", Balance: 5}},
	}
	cp := st.Clone()
	cp.Products[0].Features[0] = "changed"
	cp.Cart[0].Quantity = 9
	cp.SetBalance("A@X.IO", 1)

	assert.Equal(t, "a", st.Products[0].Features[0])
	assert.Equal(t, 1, st.Cart[0].Quantity)
	assert.Equal(t, 5.0, st.User.Balance)
	assert.Equal(t, 5.0, st.AllUsers[0].Balance)
	assert.Equal(t, 1.0, cp.User.Balance)
	assert.Equal(t, 1.0, cp.AllUsers[0].Balance)
}
