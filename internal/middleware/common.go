// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
)

// RequestIDKey 请求ID在上下文中的键
const RequestIDKey = "request_id"

// RequestID 为每个请求生成唯一ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// GetRequestID 从上下文获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Recovery 恢复 panic 并记录日志
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logger.RequestID(GetRequestID(c)),
					logger.String("path", c.Request.URL.Path),
					logger.Any("error", r),
				)
				response.InternalError(c, "")
				c.Abort()
			}
		}()
		c.Next()
	}
}
