package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ       = regexp.MustCompile(`^[A-Za-z0-9 _'$&.\-]{1,50}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePromo   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
	reCountry = regexp.MustCompile(`^[\p{L} .'\-]{2,56}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
// An empty query is valid and matches everything.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Delta checks a cart quantity step and clamps it to [-50, 50].
func Delta(n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	return max(-50, min(50, n)), true
}

// Amount accepts a non-negative money amount such as a balance or a widget-reported total.
func Amount(v float64) bool { return v >= 0 && v <= 1e9 }

// ID validates a simple resource identifier (product, order, ticket ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func PromoCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePromo.MatchString(s)
}

func Country(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCountry.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Text validates free text such as chat messages and ticket bodies.
func Text(s string, limit int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= limit
}

// Percent accepts a promo discount between 0 and 100.
func Percent(v float64) bool { return v >= 0 && v <= 100 }

// Password enforces length and character classes for new accounts.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
