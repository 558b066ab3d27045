package models

import (
	"time"
)

// Staff 员工模型
// 前台/管理端操作人，预订动作的 processed_by 引用
type Staff struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"type:varchar(100);not null" json:"-"`
	Name        string     `gorm:"type:varchar(50);not null" json:"name"`
	RoleID      int64      `gorm:"not null" json:"role_id"`
	Status      int8       `gorm:"type:smallint;not null;default:1" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName 表名
func (Staff) TableName() string {
	return "staff"
}

// StaffStatus 员工状态
const (
	StaffStatusDisabled = 0 // 禁用
	StaffStatusActive   = 1 // 正常
)

// Role 角色模型
type Role struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description *string   `gorm:"type:varchar(255)" json:"description,omitempty"`
	IsSystem    bool      `gorm:"not null;default:false" json:"is_system"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// TableName 表名
func (Role) TableName() string {
	return "roles"
}

// RoleCode 预置角色编码
const (
	RoleCodeAdmin       = "admin"        // 管理员
	RoleCodeManager     = "manager"      // 值班经理
	RoleCodeFrontDesk   = "front_desk"   // 前台
	RoleCodeHousekeeper = "housekeeper"  // 客房
	RoleCodeAccountant  = "accountant"   // 财务
)

// Permission 权限模型
type Permission struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Roles []Role `gorm:"many2many:role_permissions" json:"roles,omitempty"`
}

// TableName 表名
func (Permission) TableName() string {
	return "permissions"
}

// PermissionCode 预订核心用到的权限编码
const (
	PermissionReservationCancel      = "reservation:cancel"
	PermissionReservationRefund      = "reservation:refund"
	PermissionReservationAdminRefund = "reservation:admin_refund"
	PermissionPolicyUpdate           = "policy:update"
	PermissionSweepRun               = "sweep:run"
)
