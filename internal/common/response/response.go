// Package response 提供统一的 HTTP 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/errors"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData 分页数据结构
type PageData struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List:     list,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		},
	})
}

// Error 错误响应
func Error(c *gin.Context, err *errors.AppError) {
	httpStatus := getHTTPStatus(err.Code)
	c.JSON(httpStatus, Response{
		Code:    err.Code,
		Message: err.Message,
	})
}

// ErrorWithCode 指定错误码的错误响应
func ErrorWithCode(c *gin.Context, code int, message string) {
	httpStatus := getHTTPStatus(code)
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrInvalidParams.Message
	}
	c.JSON(http.StatusBadRequest, Response{
		Code:    errors.ErrInvalidParams.Code,
		Message: message,
	})
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrUnauthorized.Message
	}
	c.JSON(http.StatusUnauthorized, Response{
		Code:    errors.ErrUnauthorized.Code,
		Message: message,
	})
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrPermissionDenied.Message
	}
	c.JSON(http.StatusForbidden, Response{
		Code:    errors.ErrPermissionDenied.Code,
		Message: message,
	})
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrNotFound.Message
	}
	c.JSON(http.StatusNotFound, Response{
		Code:    errors.ErrNotFound.Code,
		Message: message,
	})
}

// TooManyRequests 请求过多响应
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "请求过于频繁"
	}
	c.JSON(http.StatusTooManyRequests, Response{
		Code:    errors.ErrTooManyRequests.Code,
		Message: message,
	})
}

// InternalError 服务器内部错误响应
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = errors.ErrInternalError.Message
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    errors.ErrInternalError.Code,
		Message: message,
	})
}

// getHTTPStatus 根据业务错误码映射 HTTP 状态码
func getHTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code == errors.ErrInvalidParams.Code:
		return http.StatusBadRequest
	case code >= 2000 && code < 2003:
		return http.StatusUnauthorized
	case code == errors.ErrPermissionDenied.Code || code == errors.ErrSweepSecretError.Code:
		return http.StatusForbidden
	case code == errors.ErrNotFound.Code,
		code == errors.ErrGuestNotFound.Code,
		code == errors.ErrRoomNotFound.Code,
		code == errors.ErrRoomTypeNotFound.Code,
		code == errors.ErrReservationNotFound.Code,
		code == errors.ErrServiceOrderNotFound.Code,
		code == errors.ErrLedgerEntryNotFound.Code,
		code == errors.ErrPaymentModeNotFound.Code:
		return http.StatusNotFound
	case code == errors.ErrInvalidStatusForTransition.Code,
		code == errors.ErrRoomUnavailable.Code,
		code == errors.ErrAlreadyRefunded.Code,
		code == errors.ErrRefundNotPending.Code:
		return http.StatusConflict
	case code >= 1005 && code < 2000:
		return http.StatusInternalServerError
	case code >= 7000 && code < 8000:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
