package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// Capability names an operation class gated by the access policy.
type Capability string

const (
	// CapRead covers every read endpoint; all authenticated roles hold it.
	CapRead Capability = "read"
	// CapWriteTransactions covers transaction create/update/delete.
	CapWriteTransactions Capability = "write:transactions"
	// CapManageCategories covers category create/update/delete.
	CapManageCategories Capability = "manage:categories"
)

// roleCapabilities is the explicit capability table: which roles hold which
// capability. Policy questions are answered here, never by comparing role
// strings at call sites.
var roleCapabilities = map[Capability]map[models.Role]bool{
	CapRead: {
		models.RoleAdmin:    true,
		models.RoleUser:     true,
		models.RoleReadOnly: true,
	},
	CapWriteTransactions: {
		models.RoleAdmin: true,
		models.RoleUser:  true,
	},
	CapManageCategories: {
		models.RoleAdmin: true,
	},
}

// Allowed reports whether the role holds the capability.
func Allowed(role models.Role, capability Capability) bool {
	return roleCapabilities[capability][role]
}

// RequireCapability returns middleware that rejects the request with 403
// before any handler side effect when the caller's role lacks the capability.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(apperrors.ErrUnauthorized.StatusCode, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrUnauthorized.Code,
					"message": apperrors.ErrUnauthorized.Message,
				},
			})
			c.Abort()
			return
		}

		role, ok := roleValue.(models.Role)
		if !ok || !Allowed(role, capability) {
			c.JSON(apperrors.ErrForbidden.StatusCode, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrForbidden.Code,
					"message": apperrors.ErrForbidden.Message,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
