package middleware

import (
	"context"
	"errors"
	"strings"

	"choreify/models"
	"choreify/services/access"
	"choreify/services/identity"
	"choreify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxSession        = "session"
	ctxSessionLoading = "sessionLoading"
	ctxBearerToken    = "bearerToken"
	ctxReadOnly       = "readOnly"
)

// SessionStore is the read side of the session manager.
type SessionStore interface {
	Ready() bool
	Current(ctx context.Context, id string) (*models.Session, error)
	Store(ctx context.Context, s *models.Session) error
}

// TokenResolver turns a bearer token into a session.
type TokenResolver interface {
	GetSession(ctx context.Context, accessToken string) (*models.Session, error)
}

// LoadSession attaches the caller's session to the context. The session
// cookie is tried first, then an Authorization bearer token. It never
// rejects a request; guards decide what an absent session means.
func LoadSession(store SessionStore, tokens TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Ready() {
			c.Set(ctxSessionLoading, true)
			c.Next()
			return
		}

		ctx := c.Request.Context()
		logger := GetLogger(c)

		if id, err := c.Cookie(utils.SessionCookie); err == nil && id != "" {
			s, err := store.Current(ctx, id)
			if err != nil {
				logger.Error("Failed to load session", zap.Error(err))
			}
			if s != nil {
				c.Set(ctxSession, s)
				c.Next()
				return
			}
		}

		if token := bearerToken(c); token != "" {
			c.Set(ctxBearerToken, token)
			if s := resolveBearer(ctx, store, tokens, token, logger); s != nil {
				c.Set(ctxSession, s)
			}
		}
		c.Next()
	}
}

func resolveBearer(ctx context.Context, store SessionStore, tokens TokenResolver, token string, logger *zap.Logger) *models.Session {
	if s, err := store.Current(ctx, utils.HashToken(token)); err == nil && s != nil {
		return s
	}
	s, err := tokens.GetSession(ctx, token)
	if err != nil {
		if !errors.Is(err, identity.ErrSessionNotFound) {
			logger.Warn("Bearer token lookup failed", zap.Error(err))
		}
		return nil
	}
	if err := store.Store(ctx, s); err != nil {
		logger.Warn("Failed to cache bearer session", zap.Error(err))
	}
	return s
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// CurrentSession returns the session loaded for this request, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

// AccessState is the gate's view of this request.
func AccessState(c *gin.Context) access.State {
	return access.State{
		Loading: c.GetBool(ctxSessionLoading),
		Session: CurrentSession(c),
	}
}

// IsReadOnly reports whether the request was let through read-only.
func IsReadOnly(c *gin.Context) bool {
	return c.GetBool(ctxReadOnly)
}
