package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/session"
)

// RequireLiveSession rejects tokens whose server-side session no longer
// exists. A JWT stays cryptographically valid after logout or after a
// backup import drops all sessions; this check is what retires it.
// Must run after one of the JWT middlewares.
func RequireLiveSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		if sessions.Get(claims.SessionID) == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
			return
		}
		c.Next()
	}
}
