package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelmart/internal/repos"
	"pixelmart/internal/services"
)

func (a *testApp) form(t *testing.T, method, path string, v url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if a.sid != nil {
		req.AddCookie(a.sid)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "sid" && c.Value != "" {
			a.sid = &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	return resp
}

func TestStoredProductIDSurvivesLaterRequests(t *testing.T) {
	a := newTestApp(t)
	cookie := a.adminCookie(t)

	resp := a.do(t, "PUT", "/admin/api/products/win11-pro", map[string]any{
		"name": "Windows 11 Pro", "category": "software", "price": 19.9, "stock": 10,
	}, nil, cookie)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// later requests reuse the server's request buffers
	resp = a.do(t, "DELETE", "/admin/api/products/nope", nil, nil, cookie)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = a.do(t, "GET", "/api/v1/products/xxxxxxxxxxxxxxxxxxxxxxxx", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	p, ok := a.shop.Snapshot().ProductByID("win11-pro")
	require.True(t, ok)
	assert.Equal(t, 19.9, p.Price)

	stored, err := a.repo.Load(context.Background())
	require.NoError(t, err)
	var ids []string
	for _, p := range stored.Products {
		ids = append(ids, p.ID)
	}
	var seed []string
	for _, p := range repos.SeedCatalog() {
		seed = append(seed, p.ID)
	}
	assert.ElementsMatch(t, seed, ids)
}

func TestFormValuesSurviveLaterRequests(t *testing.T) {
	a := newTestApp(t)

	resp := a.form(t, "POST", "/api/v1/auth", url.Values{
		"mode": {"signup"}, "name": {"Grace"}, "email": {"grace@pixel.test"}, "password": {"Passw0rd!"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, "POST", "/api/v1/cart", map[string]string{"productId": "office-2021"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess services.CheckoutSession
	resp = a.do(t, "POST", "/api/v1/checkout", nil, &sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.form(t, "PUT", "/api/v1/checkout/"+sess.ID+"/billing", url.Values{
		"name": {"Grace Hopper"}, "email": {"grace@pixel.test"}, "country": {"Norway"}, "paymentMethod": {"card"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// overwrite the buffers with a different body of the same shape
	a.form(t, "POST", "/api/v1/tickets", url.Values{
		"name": {"Zzzzz Zzzzzz"}, "email": {"zzzzz@zzzzz.zzzz"}, "message": {"zzzzzzzzzzzzzzzzzzzzzzzz"},
	})

	st := a.shop.Snapshot()
	require.Len(t, st.AllUsers, 1)
	assert.Equal(t, "grace@pixel.test", st.AllUsers[0].Email)
	assert.Equal(t, "Grace", st.AllUsers[0].Name)

	got, err := a.deps.CheckoutHandler.Checkout.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Billing{Name: "Grace Hopper", Email: "grace@pixel.test", Country: "Norway"}, got.Billing)
}

func TestSignInDoesNotLeakToOtherClients(t *testing.T) {
	a := newTestApp(t)
	a.signUp(t, "alice@pixel.test", 500)

	resp := a.anon(t, "GET", "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = a.anon(t, "GET", "/api/v1/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = a.anon(t, "GET", "/api/v1/messages", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// a cookie-less client cannot spend alice's wallet
	held := a.sid
	a.sid = nil
	id := reviewSession(t, a, "wallet", "win11-pro")
	var out placedReply
	resp = a.do(t, "POST", "/api/v1/checkout/"+id+"/confirm", nil, &out)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	a.sid = held

	assert.Empty(t, a.shop.Snapshot().Orders)
	var me struct {
		Email   string  `json:"email"`
		Balance float64 `json:"balance"`
	}
	resp = a.do(t, "GET", "/api/v1/auth/me", nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@pixel.test", me.Email)
	assert.Equal(t, 500.0, me.Balance)
}
