package middleware

import (
	"net/http"
	"strings"

	"bloodgroup/internal/domain"
	jwtsvc "bloodgroup/internal/pkg/jwt"
	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"

	// SessionCookie carries the JWT for browser clients.
	SessionCookie = "session"
)

// Identify resolves the caller from an Authorization bearer token or the
// session cookie. Requests without credentials continue as anonymous. A
// malformed or invalid bearer token is rejected; a stale cookie is ignored.
func Identify(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := domain.Anonymous()

		if h := c.GetHeader("Authorization"); h != "" {
			if !strings.HasPrefix(h, "Bearer ") {
				response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer token")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			claims, err := jwt.ValidateToken(tokenStr)
			if err != nil {
				response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
				return
			}
			identity = claims.Identity()
		} else if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			if claims, err := jwt.ValidateToken(cookie); err == nil {
				identity = claims.Identity()
			}
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// RequireAuth stops anonymous callers with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).IsAuthenticated() {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Identify, or an anonymous one.
func IdentityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Anonymous()
}

func setIdentity(c *gin.Context, id domain.Identity) {
	c.Set(identityKey, id)
	if id.UserID != nil {
		c.Set("user_id", *id.UserID)
	}
	c.Set("role", string(id.Role))
}
