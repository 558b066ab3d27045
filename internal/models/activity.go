package models

import (
	"time"
)

// ActivityLog 预订操作日志
// 只追加不修改：每次状态机转换都会留下一条可读记录，金额纠纷以此为准
type ActivityLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservation_id"`
	Action        string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Description   string    `gorm:"type:varchar(500);not null" json:"description"`
	UserID        *int64    `gorm:"index" json:"user_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ActivityAction 操作类型
const (
	ActivityActionCreate        = "create"
	ActivityActionConfirm       = "confirm"
	ActivityActionCheckIn       = "check_in"
	ActivityActionCheckOut      = "check_out"
	ActivityActionCancel        = "cancel"
	ActivityActionNoShow        = "no_show"
	ActivityActionRefund        = "refund"
	ActivityActionExtend        = "extend_stay"
	ActivityActionPayment       = "payment"
	ActivityActionServiceCharge = "service_charge"
	ActivityActionAutoExpire    = "auto_expire"
)
