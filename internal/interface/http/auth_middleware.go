package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beejsebazaar/advisor/internal/domain/auth"
)

const (
	sessionCookieName = "advisor_session"
	sessionContextKey = "advisor.session"
)

// sessionMiddleware attaches the signed-in user when a valid session token
// is presented. Anonymous requests pass through untouched.
func sessionMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.Configured() {
			c.Next()
			return
		}
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}
		if session, err := svc.ValidateSession(c.Request.Context(), token); err == nil {
			c.Set(sessionContextKey, session)
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if value, err := c.Cookie(sessionCookieName); err == nil {
		return value
	}
	return ""
}

func setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", secure, true)
}

// currentSession returns the session attached by sessionMiddleware, if any.
func currentSession(c *gin.Context) (auth.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return auth.Session{}, false
	}
	session, ok := value.(auth.Session)
	return session, ok
}
