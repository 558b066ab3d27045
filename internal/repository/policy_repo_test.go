// Package repository 酒店策略仓储单元测试
package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

func setupPolicyTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.HotelPolicy{}))
	return db
}

func TestPolicyRepository_Get_NotConfigured(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewPolicyRepository(db)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPolicyRepository_SaveAndGet(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	policy := models.DefaultHotelPolicy()
	require.NoError(t, repo.Save(ctx, policy))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "14:00", got.CheckInTime)
	assert.Equal(t, 12, got.NoShowHours)
	assert.True(t, got.NoShowRefundPercent.Equal(decimal.NewFromInt(50)))
}

func TestPolicyRepository_Save_UpdatesSingleton(t *testing.T) {
	db := setupPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.DefaultHotelPolicy()))

	updated := models.DefaultHotelPolicy()
	updated.NoShowHours = 6
	updated.NoShowRefundPercent = decimal.NewFromInt(25)
	require.NoError(t, repo.Save(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&models.HotelPolicy{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, got.NoShowHours)
	assert.True(t, got.NoShowRefundPercent.Equal(decimal.NewFromInt(25)))
}
