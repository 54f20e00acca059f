package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pixelmart/internal/domain"
	"pixelmart/internal/telemetry"
)

type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

type Credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

const userSessionTTL = 7 * 24 * time.Hour

type userSession struct {
	email   string
	expires time.Time
}

// AuthService signs users in and binds each one to the client's session id.
// A request is signed in only through its own sid; there is no process-wide
// current user.
type AuthService struct {
	Shop *Shop
	Sink telemetry.Sink
	// Cost is the bcrypt cost for new accounts; zero means bcrypt.DefaultCost.
	Cost int

	mu       sync.Mutex
	sessions map[string]userSession
}

func NewAuthService(shop *Shop, sink telemetry.Sink) *AuthService {
	return &AuthService{Shop: shop, Sink: sink, sessions: map[string]userSession{}}
}

// Authenticate signs in or signs up depending on mode. The returned mode is
// the one the form should show next: a login for an unknown email flips to
// signup, a signup for a known email flips to login.
func (s *AuthService) Authenticate(ctx context.Context, sid string, mode Mode, in Credentials) (*domain.User, Mode, error) {
	if sid == "" {
		return nil, mode, ErrInvalidInput
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	switch mode {
	case ModeLogin:
		u, err := s.login(ctx, in)
		emit(ctx, s.Sink, telemetry.Event{Type: telemetry.EventLogin, Email: in.Email, Success: err == nil})
		if errors.Is(err, ErrNoAccount) {
			return nil, ModeSignup, err
		}
		if err == nil {
			s.bind(sid, u.Email)
		}
		return u, ModeLogin, err
	case ModeSignup:
		u, err := s.signup(ctx, in)
		emit(ctx, s.Sink, telemetry.Event{Type: telemetry.EventSignup, Email: in.Email, Success: err == nil})
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ModeLogin, err
		}
		if err == nil {
			s.bind(sid, u.Email)
		}
		return u, ModeSignup, err
	}
	return nil, mode, ErrInvalidInput
}

func (s *AuthService) login(ctx context.Context, in Credentials) (*domain.User, error) {
	var found *domain.User
	s.Shop.View(func(st *domain.State) {
		if i := st.UserIndex(in.Email); i >= 0 {
			u := st.AllUsers[i]
			found = &u
		}
	})
	if found == nil {
		return nil, ErrNoAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(found.Hash), []byte(in.Password)) != nil {
		return nil, ErrBadCreds
	}

	var out domain.User
	err := s.Shop.Update(ctx, func(st *domain.State) error {
		i := st.UserIndex(in.Email)
		if i < 0 {
			return ErrNoAccount
		}
		u := st.AllUsers[i]
		st.User = &u
		out = u.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) signup(ctx context.Context, in Credentials) (*domain.User, error) {
	if in.Email == "" || in.Name == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return nil, ErrInvalidInput
	}

	var out domain.User
	err = s.Shop.Update(ctx, func(st *domain.State) error {
		if st.UserIndex(in.Email) >= 0 {
			return ErrDuplicateEmail
		}
		u := domain.User{
			ID:       uuid.NewString(),
			Name:     in.Name,
			Email:    in.Email,
			State:    domain.UserActive,
			JoinedAt: s.Shop.timestamp(),
			Hash:     string(hash),
		}
		st.AllUsers = append(st.AllUsers, u)
		st.User = &u
		out = u.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) bind(sid, email string) {
	now := s.Shop.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, us := range s.sessions {
		if now.After(us.expires) {
			delete(s.sessions, k)
		}
	}
	s.sessions[sid] = userSession{email: email, expires: now.Add(userSessionTTL)}
}

// Logout unbinds sid. The stored "user" key is cleared only when it holds
// the same account.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	s.mu.Lock()
	us, ok := s.sessions[sid]
	delete(s.sessions, sid)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Shop.Update(ctx, func(st *domain.State) error {
		if st.User != nil && domain.SameEmail(st.User.Email, us.email) {
			st.User = nil
		}
		return nil
	})
}

// Current returns the user signed in under sid, or nil. The account is read
// from the users collection so balance changes show up immediately.
func (s *AuthService) Current(sid string) *domain.User {
	if sid == "" {
		return nil
	}
	s.mu.Lock()
	us, ok := s.sessions[sid]
	if ok && s.Shop.Now().After(us.expires) {
		delete(s.sessions, sid)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}

	var out *domain.User
	s.Shop.View(func(st *domain.State) {
		if i := st.UserIndex(us.email); i >= 0 {
			u := st.AllUsers[i].Public()
			out = &u
		}
	})
	return out
}

func emit(ctx context.Context, sink telemetry.Sink, e telemetry.Event) {
	if sink == nil {
		return
	}
	sink.Emit(ctx, e)
}

// CredentialVerifier decides whether a submitted admin secret is accepted.
type CredentialVerifier interface {
	Verify(secret string) bool
}

// SecretVerifier checks against a single configured secret, kept only as a bcrypt hash.
type SecretVerifier struct {
	hash []byte
}

func NewSecretVerifier(secret string) (*SecretVerifier, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &SecretVerifier{hash: h}, nil
}

func (v *SecretVerifier) Verify(secret string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(secret)) == nil
}

const adminTokenTTL = 12 * time.Hour

// AdminAuth exchanges a verified secret for an opaque session token.
type AdminAuth struct {
	Verifier CredentialVerifier

	mu     sync.Mutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewAdminAuth(v CredentialVerifier) *AdminAuth {
	return &AdminAuth{Verifier: v, tokens: map[string]time.Time{}, now: time.Now}
}

func (a *AdminAuth) Login(secret string) (string, error) {
	if secret == "" || !a.Verifier.Verify(secret) {
		return "", ErrBadCreds
	}
	tok := uuid.NewString()
	a.mu.Lock()
	a.tokens[tok] = a.now().Add(adminTokenTTL)
	a.mu.Unlock()
	return tok, nil
}

func (a *AdminAuth) Valid(token string) bool {
	if token == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	exp, ok := a.tokens[token]
	if !ok {
		return false
	}
	if a.now().After(exp) {
		delete(a.tokens, token)
		return false
	}
	return true
}

func (a *AdminAuth) Logout(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}
