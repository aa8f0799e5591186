package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fileuploader-backend/internal/shared/auth"
	"fileuploader-backend/internal/shared/server/respond"
)

const (
	ownerIDKey    = "ownerId"
	ownerEmailKey = "ownerEmail"
	ownerNameKey  = "ownerName"
)

// Auth validates Bearer JWTs and stores the caller identity in context.
// Registration, login, and OAuth routes pass through unauthenticated.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/auth/") || path == "/api/v1/health" ||
			path == "/metrics" || strings.HasPrefix(path, "/local-blobs/") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(ownerIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(ownerEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(ownerNameKey, claims.Name)
		}
		c.Next()
	}
}

// OwnerIDFromContext fetches the owner ID set by the auth middleware.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// OwnerEmailFromContext fetches the owner email set by the auth middleware.
func OwnerEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
