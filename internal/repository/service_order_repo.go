package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// ServiceOrderRepository 客房服务订单仓储
type ServiceOrderRepository struct {
	db *gorm.DB
}

// NewServiceOrderRepository 创建服务订单仓储
func NewServiceOrderRepository(db *gorm.DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

// Create 创建服务订单
func (r *ServiceOrderRepository) Create(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID 根据 ID 获取服务订单
func (r *ServiceOrderRepository) GetByID(ctx context.Context, id int64) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单号获取服务订单
func (r *ServiceOrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := r.db.WithContext(ctx).
		Where("order_no = ?", orderNo).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetServiceOrderForUpdate 在事务内加行锁获取服务订单
func GetServiceOrderForUpdate(tx *gorm.DB, id int64) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	err := lockForUpdate(tx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByReservation 查询预订的服务订单
func (r *ServiceOrderRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.ServiceOrder, error) {
	var orders []*models.ServiceOrder
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
