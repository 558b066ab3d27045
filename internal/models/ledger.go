package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry 账务流水
// 一条带符号的货币记录：付款为正、退款为负
// 进入 completed 状态后金额不可变，取消只能通过反向流水实现
type LedgerEntry struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryNo       string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"entry_no"`
	ReservationID int64           `gorm:"index;not null" json:"reservation_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type          string          `gorm:"type:varchar(20);not null;index" json:"type"`
	Status        string          `gorm:"type:varchar(20);not null;index;default:'completed'" json:"status"`
	PaymentModeID *int64          `json:"payment_mode_id,omitempty"`
	ProcessedBy   *int64          `json:"processed_by,omitempty"`
	Description   string          `gorm:"type:varchar(255);not null" json:"description"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	PaymentMode *PaymentMode `gorm:"foreignKey:PaymentModeID" json:"payment_mode,omitempty"`
}

// TableName 表名
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// LedgerEntryType 流水类型
const (
	LedgerTypeAdvance    = "advance"    // 预付款
	LedgerTypePayment    = "payment"    // 付款
	LedgerTypeSettlement = "settlement" // 退房结算
	LedgerTypeRefund     = "refund"     // 退款（金额 <= 0）
)

// LedgerEntryStatus 流水状态
// 只有 completed 流水参与已付/已退金额统计
const (
	LedgerStatusPending   = "pending"
	LedgerStatusCompleted = "completed"
	LedgerStatusFailed    = "failed"
)

// PaymentLedgerTypes 计入已付金额的流水类型
var PaymentLedgerTypes = []string{
	LedgerTypeAdvance,
	LedgerTypePayment,
	LedgerTypeSettlement,
}

// PaymentMode 支付方式
type PaymentMode struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (PaymentMode) TableName() string {
	return "payment_modes"
}
