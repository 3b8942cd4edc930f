package middleware

import (
	"net/http"
	"strings"

	"choreify/services/access"
	"choreify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Template names rendered for page routes.
const (
	LoadingTemplate = "loading.html"
	DeniedTemplate  = "denied.html"
)

// RequireAccess runs the access gate for every request in the group.
func RequireAccess(guard access.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		d := access.Decide(AccessState(c), guard, path)

		switch d.Outcome {
		case access.OutcomeLoading:
			c.Header("Retry-After", "1")
			if isAPIPath(path) {
				utils.JSONError(c, http.StatusServiceUnavailable, "Session is loading", "")
				return
			}
			c.HTML(http.StatusServiceUnavailable, LoadingTemplate, gin.H{"path": path})
			c.Abort()

		case access.OutcomeRedirect:
			if isAPIPath(path) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message":    d.Message,
					"redirectTo": d.RedirectTo,
				})
				return
			}
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()

		case access.OutcomeDenied:
			s := CurrentSession(c)
			GetLogger(c).Info("Access denied",
				zap.String("path", path),
				zap.String("role", string(s.Role)),
				zap.Strings("allowed", guard.AllowedRoles))
			deny(c, d.Message)

		case access.OutcomeAllowed:
			if d.ReadOnly {
				if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
					deny(c, "Your worker application is still under review.")
					return
				}
				c.Set(ctxReadOnly, true)
			}
			c.Next()
		}
	}
}

func deny(c *gin.Context, message string) {
	if isAPIPath(c.Request.URL.Path) {
		utils.JSONError(c, http.StatusForbidden, message, "")
		return
	}
	c.HTML(http.StatusForbidden, DeniedTemplate, gin.H{"message": message})
	c.Abort()
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/")
}
