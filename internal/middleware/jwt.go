package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/internal/dto"
	"github.com/jermer/quizzly-backend/pkg/token"
)

// RequireAuth validates the Bearer token and stores the caller's
// identity in the request context for downstream guards and handlers.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			dto.JsonError(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			dto.JsonError(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := token.Validate(parts[1], jwtSecret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Failed to validate token")
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("is_admin", claims.IsAdmin)

		c.Next()
	}
}

// RequireSelfOrAdmin allows the request through only when the
// authenticated user matches the :username route param or is an admin.
// Must run after RequireAuth.
func RequireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("is_admin") || c.GetString("username") == c.Param("username") {
			c.Next()
			return
		}

		dto.JsonError(c, http.StatusUnauthorized, "Must be the user or an admin")
		c.Abort()
	}
}

// RequireAdmin allows only admin callers through. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("is_admin") {
			c.Next()
			return
		}

		dto.JsonError(c, http.StatusUnauthorized, "Must be an admin")
		c.Abort()
	}
}
