package middleware

import (
	"net/http"
	"strings"

	"review-eval/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie    = "eval_session"
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
)

// RequireSession loads the rater session from the cookie (or a Bearer
// token). Page requests without one go back to rater selection; API requests
// get 401.
func RequireSession(jwtManager *auth.JWTManager, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		claims, verr := jwtManager.VerifyToken(token)
		if token == "" || verr != nil {
			if redirectTo != "" {
				c.Redirect(http.StatusFound, redirectTo)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Select a rater first"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSessionID, claims.SessionID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// AdminBasicAuth guards the results export with a bcrypt-hashed password.
func AdminBasicAuth(user, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, p, ok := c.Request.BasicAuth()
		if !ok || u != user || !auth.CheckPassword(p, passwordHash) {
			c.Header("WWW-Authenticate", `Basic realm="results"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.Next()
	}
}
