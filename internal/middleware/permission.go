package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// PermissionChecker 权限校验接口
type PermissionChecker interface {
	HasPermission(c *gin.Context, staffID int64, permissionCode string) (bool, error)
}

// RequirePermission 要求当前员工持有指定权限
func RequirePermission(checker PermissionChecker, permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := GetStaffID(c)
		if staffID <= 0 {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		// 管理员角色拥有全部权限
		if GetRoleCode(c) == models.RoleCodeAdmin {
			c.Next()
			return
		}

		ok, err := checker.HasPermission(c, staffID, permissionCode)
		if err != nil {
			response.InternalError(c, "")
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole 要求当前员工属于指定角色之一
func RequireRole(roleCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := GetRoleCode(c)
		for _, code := range roleCodes {
			if current == code {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "")
		c.Abort()
	}
}
