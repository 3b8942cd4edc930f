package session

import (
	"choreify/models"
	"choreify/services/identity"
)

// Reduce returns the session that should be stored after ev. Sessions are
// replaced wholesale, never merged; nil means the session is destroyed.
func Reduce(prev *models.Session, ev identity.Event) *models.Session {
	switch ev.Type {
	case identity.EventSignedIn, identity.EventTokenRefreshed, identity.EventUserUpdated:
		if ev.Session == nil {
			return prev
		}
		next := *ev.Session
		return &next
	case identity.EventSignedOut, identity.EventSessionExpired:
		return nil
	default:
		return prev
	}
}
