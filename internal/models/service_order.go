package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrder 客房服务订单
// 下单时把金额计入预订的服务费，取消时反向冲减
type ServiceOrder struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo       string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	ReservationID int64           `gorm:"index;not null" json:"reservation_id"`
	ItemName      string          `gorm:"type:varchar(100);not null" json:"item_name"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string          `gorm:"type:varchar(20);not null;index;default:'placed'" json:"status"`
	PlacedBy      *int64          `json:"placed_by,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}

// TableName 表名
func (ServiceOrder) TableName() string {
	return "service_orders"
}

// ServiceOrderStatus 服务订单状态
const (
	ServiceOrderStatusPlaced    = "placed"    // 已下单
	ServiceOrderStatusCancelled = "cancelled" // 已取消
)
