package middleware

import (
	"net/http"

	"storemart-be/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "userID"
	emailKey   = "userEmail"
	isAdminKey = "isAdmin"
)

// Authenticate parses the access token, if any, and stores the caller
// identity on the gin context. Requests without a valid token pass
// through anonymously.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Set(isAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests from non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func UserEmail(c *gin.Context) string {
	return c.GetString(emailKey)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}
