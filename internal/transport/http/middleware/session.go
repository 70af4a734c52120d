package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docassist/internal/model"
	"docassist/internal/pkg/sessiontoken"
	"docassist/internal/transport/http/response"
)

const ContextSessionKey = "session_data"

// RequireSession resolves the browser-session correlation token from the
// Authorization header and exposes it as SessionData on the request context.
// The token identifies a page session, not a user.
func RequireSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing session token")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		sessionID, err := sessiontoken.Parse(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired session token")
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, model.SessionData{ID: sessionID, CreatedAt: time.Now()})
		c.Next()
	}
}

// SessionFromContext retrieves the SessionData stored by RequireSession.
func SessionFromContext(c *gin.Context) (model.SessionData, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return model.SessionData{}, false
	}
	session, ok := value.(model.SessionData)
	return session, ok
}
