package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userIDKey is the context key the authenticated principal is stored under.
const userIDKey = "user_id"

// PrincipalParser verifies a raw bearer token and returns the user id it
// carries. The core never re-derives the principal; it is resolved here
// once and passed down explicitly.
type PrincipalParser interface {
	Parse(raw string) (uuid.UUID, error)
}

// Auth returns a Gin middleware that verifies Bearer tokens using the
// provided parser and stores the user id in the request context.
func Auth(parser PrincipalParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		userID, err := parser.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID retrieves the authenticated user id set by Auth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
