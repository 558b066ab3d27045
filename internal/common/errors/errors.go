// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，支持 errors.Is 匹配预定义错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithMessagef 格式化修改错误消息
func (e *AppError) WithMessagef(format string, args ...interface{}) *AppError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown           = New(1000, "未知错误")
	ErrInvalidParams     = New(1001, "参数错误")
	ErrNotFound          = New(1002, "资源不存在")
	ErrAlreadyExists     = New(1003, "资源已存在")
	ErrDatabaseError     = New(1004, "数据库错误")
	ErrCacheError        = New(1005, "缓存错误")
	ErrInternalError     = New(1006, "内部错误")
	ErrTransactionFailed = New(1007, "事务执行失败")
	ErrTooManyRequests   = New(1008, "请求过于频繁")
)

// 认证与权限错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2003, "权限不足")
	ErrSweepSecretError = New(2004, "扫描任务密钥错误")
)

// 住客错误码 (3000-3999)
var (
	ErrGuestNotFound = New(3000, "住客不存在")
)

// 房间错误码 (4000-4999)
var (
	ErrRoomNotFound     = New(4000, "房间不存在")
	ErrRoomTypeNotFound = New(4001, "房型不存在")
	ErrRoomUnavailable  = New(4002, "房间不可用")
	ErrRoomTypeMismatch = New(4003, "房间与预订房型不符")
	ErrRoomDisabled     = New(4004, "房间已停用")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound        = New(5000, "预订不存在")
	ErrInvalidStatusForTransition = New(5001, "预订状态不允许该操作")
	ErrInvalidDateRange           = New(5002, "退房时间必须晚于入住时间")
	ErrReservationNotCheckedIn    = New(5003, "预订未入住")
	ErrCapacityExceeded           = New(5004, "超出房型容纳人数")
	ErrServiceOrderNotFound       = New(5005, "服务订单不存在")
	ErrServiceOrderCancelled      = New(5006, "服务订单已取消")
)

// 账务错误码 (6000-6999)
var (
	ErrLedgerEntryNotFound = New(6000, "账务流水不存在")
	ErrInvalidAmount       = New(6001, "无效的金额")
	ErrAlreadyRefunded     = New(6002, "已退款，无剩余可退金额")
	ErrRefundNotPending    = New(6003, "退款不在待审批状态")
	ErrPaymentModeNotFound = New(6004, "支付方式不存在")
)

// 策略错误码 (7000-7999)
var (
	ErrPolicyNotConfigured = New(7000, "酒店策略未配置")
	ErrInvalidPolicyValue  = New(7001, "无效的策略配置值")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
