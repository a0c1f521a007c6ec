package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"personal-blog/access"
	"personal-blog/helper"
	"personal-blog/models"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

const principalKey = "principal"

var HTTPHelper = helper.NewHTTPHelper()

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (access.Principal, error)
}

// Authenticate binds every request to a principal. A missing, malformed,
// expired or revoked session leaves the request anonymous; gating is up to
// the services.
func Authenticate(resolver SessionResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := access.Anonymous()

		if token := SessionToken(c); token != "" {
			p, err := resolver.ResolveSession(c.Request.Context(), token)
			switch {
			case err == nil:
				principal = p
			case !errors.Is(err, models.ErrUnauthenticated):
				logger.ErrorContext(c.Request.Context(), "failed to resolve session", "error", err)
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalFrom(c).IsAnonymous() {
			HTTPHelper.SendUnauthorizedError(c, models.ErrUnauthenticated.Error(), HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal bound by Authenticate, or anonymous.
func PrincipalFrom(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Anonymous()
}

// SessionToken reads the bearer token, falling back to the session cookie.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token := strings.TrimPrefix(header, "Bearer "); token != header {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
