// Package models 定义数据模型
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation 预订模型
// 金额字段全部使用定点小数，状态只能通过预订状态机变更
type Reservation struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"reservation_no"`
	GuestID       int64      `gorm:"index;not null" json:"guest_id"`
	RoomTypeID    int64      `gorm:"index;not null" json:"room_type_id"`
	RoomID        *int64     `gorm:"index" json:"room_id,omitempty"`
	CheckIn       time.Time  `gorm:"not null;index" json:"check_in"`
	CheckOut      time.Time  `gorm:"not null" json:"check_out"`
	Adults        int        `gorm:"not null;default:1" json:"adults"`
	Children      int        `gorm:"not null;default:0" json:"children"`
	ExtraBeds     int        `gorm:"not null;default:0" json:"extra_beds"`

	RoomCharges     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"room_charges"`
	ExtraBedCharges decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"extra_bed_charges"`
	ServiceCharges  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"service_charges"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	AdvanceAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"advance_amount"`
	PendingAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"pending_amount"`
	SettledAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"settled_amount"`

	Status              string     `gorm:"type:varchar(20);not null;index;default:'unconfirmed'" json:"status"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CheckedInAt         *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt        *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	NoShowAt            *time.Time `json:"no_show_at,omitempty"`
	CancellationReason  *string    `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`
	RequiresAdminRefund bool       `gorm:"not null;default:false" json:"requires_admin_refund"`
	Notes               *string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Guest    *Guest    `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
const (
	ReservationStatusUnconfirmed = "unconfirmed" // 待确认（未收到预付款）
	ReservationStatusConfirmed   = "confirmed"   // 已确认
	ReservationStatusCheckedIn   = "checked_in"  // 已入住
	ReservationStatusCheckedOut  = "checked_out" // 已退房（尚有未结清账务）
	ReservationStatusCompleted   = "completed"   // 已完成（账务结清）
	ReservationStatusCancelled   = "cancelled"   // 已取消
	ReservationStatusNoShow      = "no_show"     // 未入住
	ReservationStatusRefunded    = "refunded"    // 已退款
)

// ActiveReservationStatuses 占用房间的活跃状态
// 同一房间同一时刻最多允许一条此类预订
var ActiveReservationStatuses = []string{
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
}

// TerminalReservationStatuses 终态，扫描任务不得再处理
var TerminalReservationStatuses = []string{
	ReservationStatusCheckedIn,
	ReservationStatusCheckedOut,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusNoShow,
	ReservationStatusRefunded,
}

// IsTerminal 判断状态是否为扫描任务的终态
func (r *Reservation) IsTerminal() bool {
	for _, s := range TerminalReservationStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

// CanRefund 判断当前状态是否允许退款
func (r *Reservation) CanRefund() bool {
	switch r.Status {
	case ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusNoShow:
		return true
	}
	return false
}
