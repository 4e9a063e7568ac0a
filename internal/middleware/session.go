package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habita/auth/internal/security"
	"habita/auth/internal/session"
)

const (
	// ContextClaims holds the decoded security.Claims of the caller.
	ContextClaims = "claims"
	// ContextSessionID holds the opaque session identifier.
	ContextSessionID = "session_id"
)

// Session gates protected routes. Three distinct outcomes: no bound
// session is a permission denial, an expired token and a structurally
// invalid token are separate unauthorized responses.
func Session(cookieName string, sessions session.Store, codec *security.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
			return
		}

		token, err := sessions.Lookup(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Permission denied"})
				return
			}
			// A session backend outage is not an authorization call.
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		claims, err := codec.Decode(token)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(ContextClaims, *claims)
		c.Set(ContextSessionID, sessionID)

		c.Next()
	}
}
