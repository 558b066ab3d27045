// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// ReservationRepository 预订仓储
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create 创建预订
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID 根据 ID 获取预订
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *ReservationRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("RoomType").
		Preload("Room").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByReservationNo 根据预订号获取预订
func (r *ReservationRepository) GetByReservationNo(ctx context.Context, reservationNo string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_no = ?", reservationNo).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// lockForUpdate 行锁查询
// SQLite 不支持 FOR UPDATE，单元测试库退化为普通查询
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetReservationForUpdate 在事务内加行锁获取预订
func GetReservationForUpdate(tx *gorm.DB, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := lockForUpdate(tx).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update 更新预订字段
func (r *ReservationRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReservationListParams 预订列表查询参数
type ReservationListParams struct {
	GuestID      int64
	RoomTypeID   int64
	RoomID       int64
	Status       string
	CheckInFrom  *time.Time
	CheckInTo    *time.Time
	Page         int
	PageSize     int
}

// List 查询预订列表
func (r *ReservationRepository) List(ctx context.Context, params *ReservationListParams) ([]*models.Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Reservation{})

	if params.GuestID > 0 {
		query = query.Where("guest_id = ?", params.GuestID)
	}
	if params.RoomTypeID > 0 {
		query = query.Where("room_type_id = ?", params.RoomTypeID)
	}
	if params.RoomID > 0 {
		query = query.Where("room_id = ?", params.RoomID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CheckInFrom != nil {
		query = query.Where("check_in >= ?", *params.CheckInFrom)
	}
	if params.CheckInTo != nil {
		query = query.Where("check_in < ?", *params.CheckInTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var reservations []*models.Reservation
	err := query.
		Preload("Guest").
		Preload("RoomType").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// ListConfirmedWithCheckInBefore 查询入住时间早于截止时间的已确认预订
// 扫描任务的 no-show 候选集
func (r *ReservationRepository) ListConfirmedWithCheckInBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusConfirmed).
		Where("check_in < ?", cutoff).
		Order("check_in ASC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListUnconfirmedCreatedBefore 查询创建时间早于截止时间的待确认预订
// 扫描任务的保留过期候选集
func (r *ReservationRepository) ListUnconfirmedCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReservationStatusUnconfirmed).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ExistsActiveByRoomID 判断房间是否已有活跃预订占用
// 必须在事务内配合房间行锁使用
func ExistsActiveReservationByRoomID(tx *gorm.DB, roomID int64, excludeID int64) (bool, error) {
	var count int64
	err := tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveReservationStatuses).
		Where("id <> ?", excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus 统计各状态预订数量
func (r *ReservationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Count
	}
	return result, nil
}
