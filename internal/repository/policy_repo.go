package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// PolicyRepository 酒店策略仓储
// 策略为单例配置，始终读写第一条记录
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository 创建策略仓储
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Get 获取当前策略
// 未配置时返回 gorm.ErrRecordNotFound
func (r *PolicyRepository) Get(ctx context.Context) (*models.HotelPolicy, error) {
	var policy models.HotelPolicy
	err := r.db.WithContext(ctx).
		Order("id ASC").
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// Save 保存策略，不存在时创建
func (r *PolicyRepository) Save(ctx context.Context, policy *models.HotelPolicy) error {
	var existing models.HotelPolicy
	err := r.db.WithContext(ctx).Order("id ASC").First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(policy).Error
	}
	if err != nil {
		return err
	}
	policy.ID = existing.ID
	return r.db.WithContext(ctx).Save(policy).Error
}
