package domain

import "strings"

const UserActive = "active"

type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	State    string  `json:"state"`
	JoinedAt string  `json:"joinedAt"`
	Balance  float64 `json:"balance"`
	Hash     string  `json:"passwordHash,omitempty"`
}

// SameEmail compares addresses the way accounts are keyed: case-insensitively.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Public strips the password hash before a user leaves the process.
func (u User) Public() User {
	u.Hash = ""
	return u
}
