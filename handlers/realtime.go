package handlers

import (
	"choreify/middleware"
	"choreify/services/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RealtimeHandler struct {
	Hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// SessionFeed handles GET /ws/session. The browser receives its current
// session and then every auth change for it. Anonymous callers only get the
// empty snapshot.
func (h *RealtimeHandler) SessionFeed(c *gin.Context) {
	if err := h.Hub.Serve(c.Writer, c.Request, middleware.CurrentSession(c)); err != nil {
		getLogger(c).Warn("Failed to upgrade session feed", zap.Error(err))
	}
}
