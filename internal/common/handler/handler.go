// Package handler 提供 API Handler 的通用辅助函数
// 统一错误处理、登录检查、参数解析与分页绑定
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/response"
)

// HandleError 处理错误并发送相应响应
// err 为 nil 时返回 false；否则发送错误响应并返回 true，调用方应 return
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		if appErr.Err != nil {
			logger.Error("request failed",
				logger.String("path", c.Request.URL.Path),
				logger.Int("code", appErr.Code),
				logger.Err(appErr.Err),
			)
		}
		response.Error(c, appErr)
		return true
	}
	response.InternalError(c, err.Error())
	return true
}

// HandleErrorWithMessage 处理错误，对非业务错误使用自定义消息
// 用于需要隐藏内部错误详情的场景
func HandleErrorWithMessage(c *gin.Context, err error, message string) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(c, appErr)
		return true
	}
	response.InternalError(c, message)
	return true
}

// MustSucceed 便捷封装：有错误则返回错误响应，否则返回成功响应
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage 便捷封装：带自定义成功消息
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// MustSucceedPage 便捷封装：分页响应版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, page, pageSize int) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, page, pageSize)
}

// RequireStaffID 获取当前登录员工ID，缺失时发送未授权响应
func RequireStaffID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("staff_id")
	if !exists {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return id, true
}

// RequireStaffAndParseID 组合：登录检查加 id 路径参数解析
func RequireStaffAndParseID(c *gin.Context, resourceName string) (staffID, resourceID int64, ok bool) {
	staffID, ok = RequireStaffID(c)
	if !ok {
		return 0, 0, false
	}
	resourceID, ok = ParseID(c, resourceName)
	if !ok {
		return 0, 0, false
	}
	return staffID, resourceID, true
}

// ParseID 解析路径参数 id
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	return ParseParamID(c, "id", resourceName)
}

// ParseParamID 解析指定路径参数为 int64
func ParseParamID(c *gin.Context, paramName, resourceName string) (int64, bool) {
	raw := c.Param(paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析查询参数中的可选 ID
// 参数为空返回 (nil, true)；解析失败返回 (nil, false) 并已响应
func ParseQueryID(c *gin.Context, paramName, resourceName string) (*int64, bool) {
	raw := c.Query(paramName)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// 时间格式常量
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

var dateTimeFormats = []string{
	time.RFC3339,
	DateTimeFormat,
	DateFormat,
}

// ParseDateTime 解析时间参数，支持日期和日期时间两种格式
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeFormats {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ErrInvalidParams.WithMessage("时间格式错误")
}

// ParseQueryDateTime 从查询参数解析可选时间
func ParseQueryDateTime(c *gin.Context, paramName string) (*time.Time, bool) {
	raw := c.Query(paramName)
	if raw == "" {
		return nil, true
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		response.BadRequest(c, "无效的"+paramName+"格式")
		return nil, false
	}
	return &t, true
}

// ParsePagination 解析分页参数
func ParsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
