package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/authz"
	"zapcrm/internal/models"
)

func roleFromCtx(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get("papel")
	if !exists {
		return "", false
	}
	papel, _ := v.(string)
	role := models.Role(papel)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// RequireCapability rejects callers whose role lacks every listed
// capability.
func RequireCapability(caps ...authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromCtx(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if !authz.CanAll(role, caps...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireApproved blocks accounts still waiting for an admin to grant
// a role. They can only see their own profile and preferences.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		role, ok := roleFromCtx(c)
		if !ok {
			c.Next()
			return
		}
		if !authz.Approved(role) && !isPendingAllowedPath(c.Request.URL.Path) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "aguardando aprovação de um administrador"})
			return
		}
		c.Next()
	}
}

func isPendingAllowedPath(path string) bool {
	return path == "/me" || strings.HasPrefix(path, "/me/")
}
