package handlers

import (
	"context"
	"net/http"

	"choreify/middleware"
	"choreify/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileBackend reads and writes the user's backend profile.
type ProfileBackend interface {
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token string, req models.ProfileUpdateRequest) (*models.Profile, error)
}

type ProfileHandler struct {
	Backend  ProfileBackend
	Sessions SessionWriter
}

func NewProfileHandler(backend ProfileBackend, sessions SessionWriter) *ProfileHandler {
	return &ProfileHandler{Backend: backend, Sessions: sessions}
}

// GetMe handles GET /api/profile/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	s := middleware.CurrentSession(c)
	profile, err := h.Backend.GetProfile(c.Request.Context(), s.AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update handles PUT /api/profile. The stored session picks up the new
// profile so pages render it without another backend call.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s := middleware.CurrentSession(c)
	profile, err := h.Backend.UpdateProfile(c.Request.Context(), s.AccessToken, req)
	if err != nil {
		respondError(c, err)
		return
	}

	next := *s
	next.Profile = profile
	if err := h.Sessions.Store(c.Request.Context(), &next); err != nil {
		getLogger(c).Warn("Failed to refresh session profile", zap.Error(err))
	}
	c.JSON(http.StatusOK, profile)
}
