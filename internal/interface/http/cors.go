package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// originPolicy answers which Origin header value, if any, may be echoed back.
// An empty allow list or a "*" entry opens the API to every origin without
// credentials.
type originPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newOriginPolicy(allowed []string) originPolicy {
	policy := originPolicy{origins: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			policy.any = true
		default:
			policy.origins[strings.ToLower(origin)] = struct{}{}
		}
	}
	if len(policy.origins) == 0 {
		policy.any = true
	}
	return policy
}

func (p originPolicy) resolve(origin string) (string, bool) {
	if p.any {
		return "*", true
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok {
		return origin, true
	}
	return "", false
}

// corsMiddleware lets the configured front end origins call the API with the
// session cookie. Unlisted origins get no CORS headers at all.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowed)
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		if origin, ok := policy.resolve(c.GetHeader("Origin")); ok {
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			headers.Set("Access-Control-Expose-Headers", "X-Request-ID")
			if origin != "*" {
				headers.Set("Access-Control-Allow-Credentials", "true")
				headers.Add("Vary", "Origin")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
