package models

import (
	"strings"
	"time"
)

// Role is a coarse-grained authorization label. The empty Role means no role.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleWorker   Role = "WORKER"
	RoleAdmin    Role = "ADMIN"
)

// NormalizeRole uppercases and trims a raw role string.
func NormalizeRole(raw string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(raw)))
}

// SessionUser is the identity provider's view of the signed-in user.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// Session is created on sign-in and destroyed on sign-out or expiry.
type Session struct {
	ID           string      `json:"id"`
	User         SessionUser `json:"user"`
	Role         Role        `json:"role,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	Profile      *Profile    `json:"profile,omitempty"`
}

// Expired reports whether the session's token is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionView is the subset of a session safe to send to the browser.
type SessionView struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	Role      Role        `json:"role,omitempty"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Profile   *Profile    `json:"profile,omitempty"`
}

func (s *Session) View() SessionView {
	return SessionView{
		ID:        s.ID,
		User:      s.User,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
		Profile:   s.Profile,
	}
}
