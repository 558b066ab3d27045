package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// GuestRepository 住客仓储
type GuestRepository struct {
	db *gorm.DB
}

// NewGuestRepository 创建住客仓储
func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create 创建住客
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

// GetByID 根据 ID 获取住客
func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).First(&guest, id).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetByPhone 根据电话获取住客
func (r *GuestRepository) GetByPhone(ctx context.Context, phone string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// Search 按姓名或电话模糊查询
func (r *GuestRepository) Search(ctx context.Context, keyword string, limit int) ([]*models.Guest, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var guests []*models.Guest
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR phone LIKE ?", "%"+keyword+"%", "%"+keyword+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&guests).Error
	if err != nil {
		return nil, err
	}
	return guests, nil
}

// Update 更新住客字段
func (r *GuestRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
