package middleware

import (
	"net/http"

	"choreify/config"
	"choreify/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxCartID = "cartID"

// CartCookie makes sure the browser carries a cart id. The cart outlives
// sign-in and sign-out, so it is not tied to the auth session.
func CartCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(utils.CartCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(utils.CartCookie, id, int(utils.CartTTL.Seconds()), "/", config.AppConfig.CookieDomain, config.IsProduction(), true)
		}
		c.Set(ctxCartID, id)
		c.Next()
	}
}

// CartID returns the cart id set by CartCookie.
func CartID(c *gin.Context) string {
	return c.GetString(ctxCartID)
}
