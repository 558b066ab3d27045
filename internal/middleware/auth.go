package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/jwt"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
)

// 上下文键
const (
	StaffIDKey  = "staff_id"
	UsernameKey = "username"
	RoleCodeKey = "role_code"
)

// Auth 员工登录认证中间件
func Auth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "登录已过期或令牌无效")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleCodeKey, claims.RoleCode)
		c.Next()
	}
}

// extractToken 从请求头中提取 Bearer 令牌
func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetStaffID 从上下文获取员工ID
func GetStaffID(c *gin.Context) int64 {
	v, exists := c.Get(StaffIDKey)
	if !exists {
		return 0
	}
	id, _ := v.(int64)
	return id
}

// GetRoleCode 从上下文获取角色编码
func GetRoleCode(c *gin.Context) string {
	return c.GetString(RoleCodeKey)
}
