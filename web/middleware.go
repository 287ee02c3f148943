package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// requireToken guards the cart routes: the bearer token must decode and
// must not be expired. The token carries no signature, so this is session
// bookkeeping, not an authorization boundary.
func (s *server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
		return
	}

	raw := parts[1]

	claims := s.tokens.Decode(raw)
	if claims == nil || s.tokens.IsExpired(raw) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(userIDKey, claims.Subject)
	c.Next()
}
