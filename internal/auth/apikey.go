package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userCtxKey is the Gin context key used to store the authenticated user ID.
const userCtxKey = "user_id"

// APIKeyMiddleware resolves X-API-Key to the user whose log is analysed.
// Login and sessions live outside this service; the key is only an identity handle.
func APIKeyMiddleware(keys map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		userID, ok := keys[apiKey]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userCtxKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID from the request context, or 0.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(userCtxKey)
	id, _ := v.(int64)
	return id
}
