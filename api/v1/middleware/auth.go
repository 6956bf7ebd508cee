package middleware

import (
	"errors"
	"strings"

	"printtrack/internal/auth"
	"printtrack/internal/httpx"
	"printtrack/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired is a middleware that validates JWT token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.FailErr(c, httpx.ErrUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.FailErr(c, httpx.ErrUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				httpx.FailErr(c, httpx.ErrTokenExpired("token expired"))
			} else {
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid token"))
			}
			c.Abort()
			return
		}

		c.Set("uid", claims.UID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole allows only the listed roles past. Runs after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httpx.FailErr(c, httpx.ErrForbidden("insufficient role"))
		c.Abort()
	}
}

// AdminOnly shorthand for the admin-gated endpoints.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}
