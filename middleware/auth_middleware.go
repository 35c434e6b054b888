package middleware

import (
	"net/http"
	"strings"

	"blogbox/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 验证 Bearer token 是否有效，并把用户身份写入上下文。
// Tokens are stateless; an expired or malformed token is the only failure
// mode, there is no revocation check.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 将用户信息写入上下文
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
