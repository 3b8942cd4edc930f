package identity

import (
	"context"

	"choreify/models"
)

// EventType names an auth-state change.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
	EventSessionExpired EventType = "SESSION_EXPIRED"
)

// Event is an (event, session) pair delivered to subscribers. Session is
// nil for sign-out and expiry; SessionID always names the affected session.
type Event struct {
	Type      EventType
	SessionID string
	Session   *models.Session
}

// NewEvent builds an event for a session, taking its id.
func NewEvent(t EventType, s *models.Session) Event {
	ev := Event{Type: t, Session: s}
	if s != nil {
		ev.SessionID = s.ID
	}
	return ev
}

// Credentials are an email and password pair.
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SignUpRequest registers a new account. Metadata travels with the account
// (full name, requested role).
type SignUpRequest struct {
	Email    string            `json:"email" form:"email" binding:"required,email"`
	Password string            `json:"password" form:"password" binding:"required,min=6"`
	Metadata map[string]string `json:"metadata" form:"-"`
}

// Provider is the external identity provider boundary.
type Provider interface {
	// SignIn authenticates credentials and returns a fresh session.
	SignIn(ctx context.Context, creds Credentials) (*models.Session, error)
	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error)
	// SignOut ends the session with the provider.
	SignOut(ctx context.Context, session *models.Session) error
	// GetSession resolves an access token to a session, or ErrSessionNotFound.
	GetSession(ctx context.Context, accessToken string) (*models.Session, error)
	// Refresh exchanges the session's refresh token for a new access token.
	Refresh(ctx context.Context, session *models.Session) (*models.Session, error)
	// OnChange subscribes to auth-state changes and returns an unsubscribe func.
	OnChange(fn func(Event)) func()
}
