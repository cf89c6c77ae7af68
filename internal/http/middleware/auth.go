// README: Bearer-token auth middleware; stores the caller's account id on the gin context.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const callerUIDKey = "caller_uid"

// TokenVerifier verifies a raw session token and returns the account id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (string, error)
}

// Auth rejects requests without a valid "Authorization: Bearer <token>" header.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		uid, err := verifier.VerifyToken(c.Request.Context(), raw)
		if err != nil || uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerUIDKey, uid)
		c.Next()
	}
}

// CallerUID returns the authenticated account id, or "" outside Auth.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}
