package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-desk/access"
	"hotel-desk/apperrors"
	"hotel-desk/services"
	"hotel-desk/utils"
)

const (
	SessionCookie = "session"
	LoginPath     = "/login"
	identityKey   = "identity"
)

// IdentityResolver turns a bearer token into a user.
type IdentityResolver interface {
	ParseToken(raw string) (uint, error)
	Lookup(ctx context.Context, userID uint) (services.Identity, bool, error)
}

// Authenticate attaches the caller's identity when the request carries a
// valid token in the Authorization header or the session cookie.
// Anonymous requests pass through; Require decides what they may reach.
func Authenticate(resolver IdentityResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}

		userID, err := resolver.ParseToken(raw)
		if err != nil {
			c.Next()
			return
		}
		ident, ok, err := resolver.Lookup(c.Request.Context(), userID)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "identity lookup failed",
				"user_id", userID, "request_id", RequestIDFrom(c), "error", err)
			utils.JSONError(c, http.StatusInternalServerError,
				string(apperrors.CodeStorage), "internal server error", nil)
			c.Abort()
			return
		}
		if ok {
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}, false
	}
	ident, ok := v.(services.Identity)
	return ident, ok
}

// Require gates a route on the policy table. Anonymous browser requests
// are redirected to the login page, anonymous API calls get 401, and
// callers without a permitted role get 403.
func Require(policy access.Policy, op access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			if wantsHTML(c) {
				c.Redirect(http.StatusSeeOther, LoginPath)
				c.Abort()
				return
			}
			utils.JSONError(c, http.StatusUnauthorized,
				string(apperrors.CodeUnauthorized), apperrors.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}
		if !policy.Allowed(ident.Role, op) {
			utils.JSONError(c, http.StatusForbidden,
				string(apperrors.CodeForbidden), apperrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
