package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"placeshare/internal/auth"
	"placeshare/internal/httperr"
)

// Context keys for the identity attached by UserAuth.
const (
	UserIDKey    = "userId"
	UserEmailKey = "userEmail"
)

// UserAuth validates the bearer token and injects the caller's identity into
// the context. OPTIONS preflight requests pass through unchecked.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			abortUnauthorized(c, "Authentication failed")
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			abortUnauthorized(c, "Authentication failed")
			return
		}

		identity, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			abortUnauthorized(c, "Authentication failed")
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(UserEmailKey, identity.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(httperr.Unauthorized(message))
	c.Abort()
}
