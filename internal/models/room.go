package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType 房型模型
// 计费模版：基础价、加床价、容量，计费服务只读
type RoomType struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(50);not null" json:"name"`
	Code           string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	ExtraBedCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"extra_bed_charge"`
	AdultCapacity  int             `gorm:"not null;default:2" json:"adult_capacity"`
	ChildCapacity  int             `gorm:"not null;default:1" json:"child_capacity"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Rooms []Room `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}

// TableName 表名
func (RoomType) TableName() string {
	return "room_types"
}

// Room 房间模型
// 房态只能由预订状态机的副作用变更
type Room struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomNo      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_no"`
	Floor       int       `gorm:"not null;default:1" json:"floor"`
	RoomTypeID  int64     `gorm:"index;not null" json:"room_type_id"`
	Status      string    `gorm:"type:varchar(20);not null;index;default:'available'" json:"status"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomStatus 房间状态
// 不变量：IsAvailable == (Status == available)
const (
	RoomStatusAvailable   = "available"   // 可入住
	RoomStatusOccupied    = "occupied"    // 已入住
	RoomStatusCleaning    = "cleaning"    // 清洁中
	RoomStatusMaintenance = "maintenance" // 维修中
)
