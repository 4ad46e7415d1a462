package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qpath-optimizer/backend/pkg/response"
)

// SessionAuthorizer checks that a token was issued for a session
type SessionAuthorizer interface {
	Authorize(sessionID, token string) error
}

// SessionAuth requires a bearer token (or ?token= for websockets) issued
// for the :id route parameter.
func SessionAuth(auth SessionAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.Unauthorized(c, "Missing session token", nil)
			return
		}
		if err := auth.Authorize(c.Param("id"), token); err != nil {
			response.Unauthorized(c, "Invalid session token", err)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
