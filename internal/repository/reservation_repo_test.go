// Package repository 预订仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
)

func setupReservationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Guest{}, &models.RoomType{}, &models.Room{},
		&models.Reservation{}, &models.LedgerEntry{}, &models.ActivityLog{},
	)
	require.NoError(t, err)

	return db
}

func newTestReservation(db *gorm.DB, t *testing.T, status string, checkIn time.Time) *models.Reservation {
	t.Helper()

	guest := &models.Guest{Name: "测试住客"}
	require.NoError(t, db.Create(guest).Error)

	roomType := &models.RoomType{
		Name:           "标准间",
		Code:           "STD-" + time.Now().Format("150405.000000"),
		BasePrice:      decimal.NewFromInt(100),
		ExtraBedCharge: decimal.NewFromInt(30),
		AdultCapacity:  2,
		ChildCapacity:  1,
		IsActive:       true,
	}
	require.NoError(t, db.Create(roomType).Error)

	reservation := &models.Reservation{
		ReservationNo: "RSV" + time.Now().Format("20060102150405.000000"),
		GuestID:       guest.ID,
		RoomTypeID:    roomType.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(24 * time.Hour),
		Adults:        2,
		RoomCharges:   decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(100),
		PendingAmount: decimal.NewFromInt(100),
		Status:        status,
	}
	require.NoError(t, db.Create(reservation).Error)
	return reservation
}

func TestReservationRepository_CreateAndGet(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	created := newTestReservation(db, t, models.ReservationStatusUnconfirmed, time.Now().Add(24*time.Hour))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ReservationNo, got.ReservationNo)
	assert.Equal(t, models.ReservationStatusUnconfirmed, got.Status)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(100)))

	byNo, err := repo.GetByReservationNo(ctx, created.ReservationNo)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNo.ID)
}

func TestReservationRepository_GetByID_NotFound(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReservationRepository_Update(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	reservation := newTestReservation(db, t, models.ReservationStatusUnconfirmed, time.Now().Add(24*time.Hour))

	now := time.Now()
	err := repo.Update(ctx, reservation.ID, map[string]interface{}{
		"status":       models.ReservationStatusConfirmed,
		"confirmed_at": now,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
}

func TestReservationRepository_List_FilterByStatus(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(24*time.Hour))
	newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(48*time.Hour))
	newTestReservation(db, t, models.ReservationStatusCancelled, time.Now().Add(24*time.Hour))

	list, total, err := repo.List(ctx, &ReservationListParams{
		Status: models.ReservationStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, models.ReservationStatusConfirmed, r.Status)
	}
}

func TestReservationRepository_ListConfirmedWithCheckInBefore(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	// 入住时间已过期的已确认预订
	overdue := newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(-20*time.Hour))
	// 入住时间未到的已确认预订
	newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(24*time.Hour))
	// 已过期但状态是 checked_in，不应命中
	newTestReservation(db, t, models.ReservationStatusCheckedIn, time.Now().Add(-20*time.Hour))

	candidates, err := repo.ListConfirmedWithCheckInBefore(ctx, time.Now().Add(-12*time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, overdue.ID, candidates[0].ID)
}

func TestReservationRepository_ListUnconfirmedCreatedBefore(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	stale := newTestReservation(db, t, models.ReservationStatusUnconfirmed, time.Now().Add(72*time.Hour))
	// 回拨创建时间模拟超过保留时限
	require.NoError(t, db.Model(&models.Reservation{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-30*time.Hour)).Error)

	newTestReservation(db, t, models.ReservationStatusUnconfirmed, time.Now().Add(72*time.Hour))

	candidates, err := repo.ListUnconfirmedCreatedBefore(ctx, time.Now().Add(-24*time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, stale.ID, candidates[0].ID)
}

func TestExistsActiveReservationByRoomID(t *testing.T) {
	db := setupReservationTestDB(t)
	ctx := context.Background()
	_ = ctx

	reservation := newTestReservation(db, t, models.ReservationStatusCheckedIn, time.Now())
	room := &models.Room{RoomNo: "101", RoomTypeID: reservation.RoomTypeID, Status: models.RoomStatusOccupied, IsActive: true}
	require.NoError(t, db.Create(room).Error)
	require.NoError(t, db.Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Update("room_id", room.ID).Error)

	occupied, err := ExistsActiveReservationByRoomID(db, room.ID, 0)
	require.NoError(t, err)
	assert.True(t, occupied)

	// 排除自身后不再占用
	occupied, err = ExistsActiveReservationByRoomID(db, room.ID, reservation.ID)
	require.NoError(t, err)
	assert.False(t, occupied)
}

func TestReservationRepository_CountByStatus(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(24*time.Hour))
	newTestReservation(db, t, models.ReservationStatusConfirmed, time.Now().Add(24*time.Hour))
	newTestReservation(db, t, models.ReservationStatusNoShow, time.Now().Add(-48*time.Hour))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.ReservationStatusConfirmed])
	assert.Equal(t, int64(1), counts[models.ReservationStatusNoShow])
}
