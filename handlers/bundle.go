package handlers

import (
	"net/http"

	"choreify/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers the router needs.
type HandlerBundle struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Booking  *BookingHandler
	Profile  *ProfileHandler
	Worker   *WorkerHandler
	Pages    *PageHandler
	Realtime *RealtimeHandler

	// Checks reports dependency health for /health.
	Checks map[string]utils.HealthCheck
}

// Health handles GET /health.
func (hb *HandlerBundle) Health(c *gin.Context) {
	report := utils.RunHealthChecks(c.Request.Context(), hb.Checks)
	status := http.StatusOK
	if report.Status != utils.StatusUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
