package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HotelPolicy 酒店策略（单例配置）
// 策略引擎和扫描任务的只读输入，由管理端设置接口更新
type HotelPolicy struct {
	ID                     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CheckInTime            string          `gorm:"type:varchar(5);not null;default:'14:00'" json:"check_in_time"`
	CheckOutTime           string          `gorm:"type:varchar(5);not null;default:'12:00'" json:"check_out_time"`
	NoShowHours            int             `gorm:"not null;default:12" json:"no_show_hours"`
	NoShowRefundPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"no_show_refund_percent"`
	UnconfirmedHoldHours   int             `gorm:"not null;default:24" json:"unconfirmed_hold_hours"`
	CancellationFeePercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"cancellation_fee_percent"`
	RefundApprovalRequired bool            `gorm:"not null;default:false" json:"refund_approval_required"`
	UpdatedBy              *int64          `json:"updated_by,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (HotelPolicy) TableName() string {
	return "hotel_policies"
}

// DefaultHotelPolicy 返回默认策略
// 入住 14:00、退房 12:00、12 小时未到视为 no-show 且退 50%、
// 未确认预订保留 24 小时、取消不收手续费、退款无需人工审批
func DefaultHotelPolicy() *HotelPolicy {
	return &HotelPolicy{
		CheckInTime:            "14:00",
		CheckOutTime:           "12:00",
		NoShowHours:            12,
		NoShowRefundPercent:    decimal.NewFromInt(50),
		UnconfirmedHoldHours:   24,
		CancellationFeePercent: decimal.Zero,
		RefundApprovalRequired: false,
	}
}
