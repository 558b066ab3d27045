package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

// LedgerRepository 账务流水仓储
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建账务流水仓储
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create 创建流水
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID 根据 ID 获取流水
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByEntryNo 根据流水号获取流水
func (r *LedgerRepository) GetByEntryNo(ctx context.Context, entryNo string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("entry_no = ?", entryNo).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByReservation 查询预订的全部流水
func (r *LedgerRepository) ListByReservation(ctx context.Context, reservationID int64) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateStatus 更新流水状态
func (r *LedgerRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// NetPaid 计算预订的净已付金额
// 只统计 completed 流水，付款为正、退款为负，结果为带符号求和
func (r *LedgerRepository) NetPaid(ctx context.Context, reservationID int64) (decimal.Decimal, error) {
	return netPaidQuery(r.db.WithContext(ctx), reservationID)
}

// NetPaidTx 在事务内计算净已付金额
func NetPaidTx(tx *gorm.DB, reservationID int64) (decimal.Decimal, error) {
	return netPaidQuery(tx, reservationID)
}

func netPaidQuery(db *gorm.DB, reservationID int64) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("reservation_id = ?", reservationID).
		Where("status = ?", models.LedgerStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumCompletedRefunds 计算预订已完成退款总额（带负号）
func (r *LedgerRepository) SumCompletedRefunds(ctx context.Context, reservationID int64) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("reservation_id = ?", reservationID).
		Where("type = ?", models.LedgerTypeRefund).
		Where("status = ?", models.LedgerStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// PaymentModeRepository 支付方式仓储
type PaymentModeRepository struct {
	db *gorm.DB
}

// NewPaymentModeRepository 创建支付方式仓储
func NewPaymentModeRepository(db *gorm.DB) *PaymentModeRepository {
	return &PaymentModeRepository{db: db}
}

// GetByID 根据 ID 获取支付方式
func (r *PaymentModeRepository) GetByID(ctx context.Context, id int64) (*models.PaymentMode, error) {
	var mode models.PaymentMode
	err := r.db.WithContext(ctx).First(&mode, id).Error
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

// ListActive 查询启用的支付方式
func (r *PaymentModeRepository) ListActive(ctx context.Context) ([]*models.PaymentMode, error) {
	var modes []*models.PaymentMode
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&modes).Error
	if err != nil {
		return nil, err
	}
	return modes, nil
}
