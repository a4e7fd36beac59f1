package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckLoginMiddleware aborts with 401 unless AuthMiddleware accepted a token.
func CheckLoginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("UserID"); exists {
			c.Next()
			return
		}

		if tokenFromRequest(c) == "" {
			c.String(http.StatusUnauthorized, "Access Denied. No token provided.")
		} else {
			c.String(http.StatusUnauthorized, "Invalid or expired token.")
		}
		c.Abort()
	}
}
