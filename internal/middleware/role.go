package middleware

import (
	"net/http"

	"bloodgroup/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminOnly requires an authenticated admin identity.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if !id.IsAuthenticated() {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
			return
		}
		if !id.IsAdmin() {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied. Admins only.")
			return
		}
		c.Next()
	}
}
