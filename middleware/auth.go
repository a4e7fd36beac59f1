package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/jwt"
)

// TokenHeader carries the login token on requests and on the login response.
const TokenHeader = "x-auth-token"

func tokenFromRequest(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token
	}
	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}

// AuthMiddleware resolves the request's token, if any, into UserID and Role context values.
// Requests without a valid token pass through anonymously.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		userID, role, err := tokens.VerifyToken(token)
		if err != nil {
			zap.L().Info("rejected auth token", zap.String("path", c.FullPath()), zap.Error(err))
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Role", role)
		c.Next()
	}
}
