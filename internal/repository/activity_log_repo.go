package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// ActivityLogRepository 操作日志仓储
// 只追加：不提供更新和删除
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository 创建操作日志仓储
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create 追加日志
func (r *ActivityLogRepository) Create(ctx context.Context, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByReservation 查询预订的操作日志，按时间升序
func (r *ActivityLogRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.ActivityLog, error) {
	var logs []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// AppendActivityTx 在事务内追加日志
func AppendActivityTx(tx *gorm.DB, reservationID int64, action, description string, userID *int64) error {
	return tx.Create(&models.ActivityLog{
		ReservationID: reservationID,
		Action:        action,
		Description:   description,
		UserID:        userID,
	}).Error
}
