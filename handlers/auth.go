package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"choreify/config"
	"choreify/middleware"
	"choreify/models"
	"choreify/services/identity"
	"choreify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileSource fetches the backend profile of a signed-in user.
type ProfileSource interface {
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
}

// SessionWriter replaces the stored session.
type SessionWriter interface {
	Store(ctx context.Context, s *models.Session) error
}

type AuthHandler struct {
	Provider identity.Provider
	Sessions SessionWriter
	Profiles ProfileSource
}

func NewAuthHandler(provider identity.Provider, sessions SessionWriter, profiles ProfileSource) *AuthHandler {
	return &AuthHandler{Provider: provider, Sessions: sessions, Profiles: profiles}
}

type authResponse struct {
	Session    models.SessionView `json:"session"`
	RedirectTo string             `json:"redirectTo"`
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var creds identity.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		h.fail(c, "/login", nil, err)
		return
	}

	s, err := h.Provider.SignIn(c.Request.Context(), creds)
	if err != nil {
		h.fail(c, "/login", err, nil)
		return
	}
	h.complete(c, s)
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identity.SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/signup", nil, err)
		return
	}
	if name := c.PostForm("fullName"); name != "" {
		if req.Metadata == nil {
			req.Metadata = map[string]string{}
		}
		req.Metadata["fullName"] = name
	}
	// Self-service sign-up never grants elevated roles.
	if req.Metadata != nil && models.NormalizeRole(req.Metadata["role"]) != models.RoleCustomer {
		delete(req.Metadata, "role")
	}

	s, err := h.Provider.SignUp(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "/signup", err, nil)
		return
	}
	getLogger(c).Info("Account created", zap.String("userID", s.User.ID))
	h.complete(c, s)
}

// complete enriches a fresh session with the backend profile and sets the cookie.
func (h *AuthHandler) complete(c *gin.Context, s *models.Session) {
	s = h.withProfile(c, s)
	setSessionCookie(c, s)
	redirectTo := safeReturnTo(c.Query("returnTo"), defaultLanding(s.Role))
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, redirectTo)
		return
	}
	c.JSON(http.StatusOK, authResponse{Session: s.View(), RedirectTo: redirectTo})
}

// fail reports a sign-in or sign-up failure. Form posts go back to the
// form page with the message; JSON callers get an error body.
func (h *AuthHandler) fail(c *gin.Context, page string, err, bindErr error) {
	if !isFormPost(c) {
		if bindErr != nil {
			badRequest(c, bindErr)
		} else {
			respondError(c, err)
		}
		return
	}
	msg := "Please check the form and try again"
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		msg = "Invalid email or password"
	case errors.Is(err, identity.ErrEmailInUse):
		msg = "An account with this email already exists"
	case err != nil:
		getLogger(c).Warn("Authentication failed", zap.Error(err))
		msg = "We could not sign you in. Please try again."
	}
	q := url.Values{}
	q.Set("message", msg)
	if rt := c.Query("returnTo"); rt != "" {
		q.Set("returnTo", safeReturnTo(rt, "/"))
	}
	c.Redirect(http.StatusSeeOther, page+"?"+q.Encode())
}

func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEPOSTForm || ct == gin.MIMEMultipartPOSTForm
}

// withProfile attaches the backend profile and takes the role from it when
// the backend has one. A backend failure keeps the provider's view.
func (h *AuthHandler) withProfile(c *gin.Context, s *models.Session) *models.Session {
	ctx := c.Request.Context()
	profile, err := h.Profiles.GetProfile(ctx, s.AccessToken)
	if err != nil {
		getLogger(c).Warn("Profile lookup after sign-in failed", zap.String("userID", s.User.ID), zap.Error(err))
		return s
	}

	next := *s
	next.Profile = profile
	if role := models.NormalizeRole(profile.Role); role != "" {
		next.Role = role
	}
	if err := h.Sessions.Store(ctx, &next); err != nil {
		getLogger(c).Error("Failed to store enriched session", zap.String("sessionID", s.ID), zap.Error(err))
		return s
	}
	return &next
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil {
		if err := h.Provider.SignOut(c.Request.Context(), s); err != nil {
			respondError(c, err)
			return
		}
	}
	clearSessionCookie(c)
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	state := middleware.AccessState(c)
	if state.Loading {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true, "session": nil})
		return
	}
	if state.Session == nil {
		c.JSON(http.StatusOK, gin.H{"loading": false, "session": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loading": false, "session": state.Session.View()})
}

func setSessionCookie(c *gin.Context, s *models.Session) {
	maxAge := config.AppConfig.SessionTTL
	if !s.ExpiresAt.IsZero() {
		maxAge += time.Until(s.ExpiresAt)
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookie, s.ID, int(maxAge.Seconds()), "/", config.AppConfig.CookieDomain, config.IsProduction(), true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookie, "", -1, "/", config.AppConfig.CookieDomain, config.IsProduction(), true)
}

// safeReturnTo only accepts local paths.
func safeReturnTo(returnTo, fallback string) string {
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") || strings.Contains(returnTo, `\`) {
		return fallback
	}
	return returnTo
}

func defaultLanding(role models.Role) string {
	switch role {
	case models.RoleWorker:
		return "/worker/dashboard"
	case models.RoleAdmin:
		return "/admin"
	default:
		return "/dashboard"
	}
}
