package middleware

import (
	"net/http"
	"strings"

	"farm-contact-api/pkg/apperror"
	"farm-contact-api/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// OriginPolicy decides which Access-Control-Allow-Origin value a request gets
// and whether the request may proceed at all.
type OriginPolicy interface {
	// Resolve returns the allow-origin header value and whether origin is permitted.
	Resolve(origin string) (allowOrigin string, allowed bool)
	// Varies reports whether the header value depends on the Origin header.
	Varies() bool
}

// AllowListPolicy permits the listed origins plus local development origins.
// Anything else is refused and answered with the first listed origin.
type AllowListPolicy struct {
	origins  map[string]struct{}
	fallback string
}

// localOriginPrefixes are always allowed so the site can be developed locally.
var localOriginPrefixes = []string{"http://localhost", "http://127.0.0.1"}

// NewAllowListPolicy builds the policy; origins must not be empty.
func NewAllowListPolicy(origins []string) *AllowListPolicy {
	p := &AllowListPolicy{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		p.origins[o] = struct{}{}
	}
	if len(origins) > 0 {
		p.fallback = origins[0]
	}
	return p
}

func (p *AllowListPolicy) Resolve(origin string) (string, bool) {
	if origin == "" {
		return p.fallback, false
	}
	if _, ok := p.origins[origin]; ok {
		return origin, true
	}
	if IsLocalOrigin(origin) {
		return origin, true
	}
	return p.fallback, false
}

func (p *AllowListPolicy) Varies() bool { return true }

// OpenPolicy allows every origin with a wildcard.
type OpenPolicy struct{}

func (OpenPolicy) Resolve(string) (string, bool) { return "*", true }

func (OpenPolicy) Varies() bool { return false }

// IsLocalOrigin reports whether origin points at a local development server.
func IsLocalOrigin(origin string) bool {
	for _, prefix := range localOriginPrefixes {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// CORSMiddleware applies policy to every request of the group it is mounted on:
//   - every response carries the CORS headers, errors included
//   - OPTIONS preflights are answered with 200 and no body
//   - refused origins get 403 {"error":"Forbidden"}
func CORSMiddleware(policy OriginPolicy, secLog *security.SecurityLogger) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.NewSecurityLogger(nil, "", "")
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowOrigin, allowed := policy.Resolve(origin)

		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		if policy.Varies() {
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		if !allowed {
			secLog.LogOriginRejected(c.Request.Context(), origin, c.ClientIP(), c.Request.UserAgent(), c.GetString(RequestIDKey))
			// Rendered by ErrorHandler, which must be mounted ahead of this middleware
			c.Error(apperror.Forbidden("Forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}
