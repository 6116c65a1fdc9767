package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskbot/internal/auth"
)

// Ключи контекста, под которыми middleware кладет личность действующего пользователя
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

// JWTAuthMiddleware проверяет Bearer-токен шлюза и извлекает из него
// platform ID и имя действующего пользователя.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		userID, username, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UsernameKey, username)
		c.Next()
	}
}

// ActorID returns the authenticated user's platform ID from the gin context.
func ActorID(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// ActorUsername returns the authenticated user's display name, if present.
func ActorUsername(c *gin.Context) string {
	v, exists := c.Get(UsernameKey)
	if !exists {
		return ""
	}
	name, _ := v.(string)
	return name
}
