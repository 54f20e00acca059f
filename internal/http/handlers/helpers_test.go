package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pixelmart/internal/http/handlers"
	"pixelmart/internal/repos"
	"pixelmart/internal/services"
	"pixelmart/internal/telemetry"
)

const adminSecret = "open-sesame"

type fakeVerifier struct{}

func (fakeVerifier) Verify(s string) bool { return s == adminSecret }

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	shop *services.Shop
	repo *repos.StateRepo
	// sid is the session cookie, kept across requests like a browser would.
	sid *http.Cookie
}

// newTestApp builds the full route table over an in-memory store, without
// the CSRF and global rate-limit middleware.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repos.NewStateRepo(db)
	st, err := repo.Load(context.Background())
	require.NoError(t, err)
	shop := services.NewShop(st, repo)

	deps := handlers.NewDeps(shop, telemetry.NopSink{}, nil, services.NewAdminAuth(fakeVerifier{}))
	deps.Auth.Cost = bcrypt.MinCost

	app := fiber.New(handlers.AppConfig())
	app.Use(requestid.New())
	handlers.Register(app, deps)
	app.Use(handlers.NotFound)
	return &testApp{app: app, deps: deps, shop: shop, repo: repo}
}

// do sends body as JSON and decodes a JSON reply into out when out is non-nil.
// The sid cookie is sent when held and updated from the reply.
func (a *testApp) do(t *testing.T, method, path string, body any, out any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.sid != nil {
		req.AddCookie(a.sid)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name != "sid" {
			continue
		}
		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			a.sid = nil
		} else {
			a.sid = &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// anon sends a request from a client holding no cookies.
func (a *testApp) anon(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()
	held := a.sid
	a.sid = nil
	defer func() { a.sid = held }()
	return a.do(t, method, path, body, out)
}

func (a *testApp) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	resp := a.do(t, "POST", "/admin/login", map[string]string{"secret": adminSecret}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	tok := cookieValue(resp, "admin_token")
	require.NotEmpty(t, tok)
	return &http.Cookie{Name: "admin_token", Value: tok}
}

func (a *testApp) signUp(t *testing.T, email string, balance float64) {
	t.Helper()
	resp := a.do(t, "POST", "/api/v1/auth", map[string]string{
		"mode": "signup", "name": "Ada", "email": email, "password": "Passw0rd!",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	if balance > 0 {
		resp = a.do(t, "PUT", "/admin/api/users/"+email+"/balance", map[string]float64{"balance": balance}, nil, a.adminCookie(t))
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	User   string         `json:"user"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs swaps the standard logger output while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
