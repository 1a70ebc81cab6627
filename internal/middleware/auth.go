package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oficialwritiai-cmd/WritiIA/internal/service"
)

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. The token is the only source of identity: user IDs
// carried in request bodies are ignored.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Debes iniciar sesión para usar esta función.",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Formato de autorización inválido. Usa: Bearer <token>.",
			})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Sesión inválida o expirada. Vuelve a iniciar sesión.",
			})
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("email", claims["email"])
		c.Set("role", claims["role"])

		c.Next()
	}
}

// ResolveIdentity records the caller's identity when a valid bearer token is
// present but lets anonymous requests through. Generation routes accept a
// body-level user ID for clients that have not migrated to tokens yet; a
// valid token always wins over the body.
func ResolveIdentity(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := authService.ValidateToken(parts[1]); err == nil {
					c.Set("user_id", claims["user_id"])
					c.Set("email", claims["email"])
					c.Set("role", claims["role"])
				}
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated caller's ID from the context.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
