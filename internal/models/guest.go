package models

import (
	"time"
)

// Guest 住客模型
// 预订核心只读引用
type Guest struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone     *string   `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email     *string   `gorm:"type:varchar(100)" json:"email,omitempty"`
	IDNumber  *string   `gorm:"type:varchar(50)" json:"id_number,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Guest) TableName() string {
	return "guests"
}
