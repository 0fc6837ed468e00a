package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"xrgi-portal/backend/utils"
)

// Context keys set by Auth.
const (
	UserIDKey = "user_id"
	PortalKey = "portal"
)

// bearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively.
func bearerToken(h string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth rejects requests without a valid access token and exposes the caller's
// user id and portal to handlers.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := utils.ParseJWT(secret, token)
		if err != nil || claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(PortalKey, claims.Portal)
		c.Next()
	}
}
